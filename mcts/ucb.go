package mcts

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/sevenwd/sevenwd/controller"
)

// UCB1 is the deterministic rollout search: no neural network, a classic
// UCB1 selection rule, one random expansion per visit, and a uniform-random
// rollout to a terminal state. Each sample builds its tree on the same
// arena-allocated Node/naughty storage search.go's PUCT search uses (see
// ucbTree below), rather than a parallel GC-allocated structure. It is cheap
// enough to run as a baseline opponent or to sanity-check a PUCT search
// driven by an untrained net.
type UCB1 struct {
	NumIterations int // playouts spent per sample
	NumSamples    int // independent trees averaged together
	MaxDepth      int // rollout depth cap before declaring a draw
	Parallel      bool

	randMu sync.Mutex
	rand   *rand.Rand
}

const ucbExploration = 1.41421356 // sqrt(2), the classic UCB1 constant
const ucbEpsilon = 1e-6

func NewUCB1(numIterations, numSamples, maxDepth int) *UCB1 {
	return &UCB1{
		NumIterations: numIterations,
		NumSamples:    numSamples,
		MaxDepth:      maxDepth,
		Parallel:      true,
		rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ucbTree is one sample's search tree: a fresh *MCTS arena (the same
// nodes/children/naughty machinery tree.go allocates for PUCT) plus the
// per-node game state and remaining-unexplored-moves bookkeeping Node
// itself has no room for. Discarded whole after each sample.
type ucbTree struct {
	*MCTS
	states     []*controller.Controller
	unexplored [][]controller.Move
	owner      []uint8 // player who made the move producing node i
}

func newUCBTree() *ucbTree {
	return &ucbTree{
		MCTS: &MCTS{
			nodes:    make([]Node, 0, 256),
			children: make([][]naughty, 0, 256),
		},
	}
}

// alloc allocates a fresh arena node for move (the move that produced it,
// -1 for the root), owned by owner, holding state. Visits start at zero
// (unlike MCTS.New's PUCT-oriented virtual-visit default) so UCB1's
// exploration term behaves classically on a brand new node.
func (ut *ucbTree) alloc(move int32, owner uint8, state *controller.Controller) naughty {
	id := ut.New(move, 0)
	n := ut.nodeFromNaughty(id)
	n.lock.Lock()
	n.visits = 0
	n.lock.Unlock()
	ut.states = append(ut.states, state)
	ut.unexplored = append(ut.unexplored, state.EnumerateMoves())
	ut.owner = append(ut.owner, owner)
	return id
}

// SelectMove runs NumSamples independent trees of NumIterations playouts
// each and returns the move with the most combined visits across samples,
// matching the original's "most-sampled child wins" rule rather than
// highest average score.
func (u *UCB1) SelectMove(state *controller.Controller) (controller.Move, float32) {
	moves := state.EnumerateMoves()
	if len(moves) == 0 {
		return controller.Move{}, 0
	}
	if len(moves) == 1 {
		return moves[0], 0
	}

	rootPlayer := state.Turn()
	sampledVisits := make([]uint32, len(moves))
	scores := make([]float32, len(moves))
	var mu sync.Mutex

	runSample := func(rng *rand.Rand) {
		ut := newUCBTree()
		root := ut.alloc(-1, rootPlayer, state)
		ut.unexplored[int(root)] = nil // children pre-expanded below

		children := make([]naughty, len(moves))
		for i, m := range moves {
			childState := state.Apply(m)
			children[i] = ut.alloc(int32(m.FixedIndex()), rootPlayer, childState)
			// re-fetch root each time: alloc may grow (and reallocate) the
			// node arena, which would leave an earlier pointer stale.
			ut.nodeFromNaughty(root).AddChild(children[i])
		}

		for iter := 0; iter < u.NumIterations; iter++ {
			path, forcedWin := ut.selectAndExpand(root, rng)
			leaf := path[len(path)-1]
			var reward float32
			if forcedWin {
				if ut.owner[int(leaf)] == rootPlayer {
					reward = 1
				}
			} else {
				reward = u.rollout(ut.states[int(leaf)], rootPlayer, rng)
			}
			ut.backpropagate(path, rootPlayer, reward)
		}

		mu.Lock()
		for i, child := range children {
			n := ut.nodeFromNaughty(child)
			visits := n.Visits()
			sampledVisits[i] += visits
			scores[i] += n.QSA() * float32(visits)
		}
		mu.Unlock()
	}

	if u.Parallel && u.NumSamples > 1 {
		ch := make(chan *rand.Rand, runtime.NumCPU())
		for i := 0; i < runtime.NumCPU(); i++ {
			ch <- rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
		}
		var wg sync.WaitGroup
		for s := 0; s < u.NumSamples; s++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rng := <-ch
				runSample(rng)
				ch <- rng
			}()
		}
		wg.Wait()
	} else {
		for s := 0; s < u.NumSamples; s++ {
			runSample(u.rand)
		}
	}

	bestIndex, bestVisits := 0, uint32(0)
	for i, v := range sampledVisits {
		if v > 0 {
			scores[i] /= float32(v)
		}
		if v > bestVisits {
			bestVisits = v
			bestIndex = i
		}
	}
	return moves[bestIndex], scores[bestIndex]
}

// selectAndExpand walks down by UCB1 until it reaches a node with unexplored
// moves (or a terminal state), then expands one unexplored move at random,
// returning the full root-to-leaf path for backpropagate. Along the way, a
// child that is an immediate win for the player who just moved is taken
// unconditionally, mirroring the original's forced-win shortcut.
func (ut *ucbTree) selectAndExpand(root naughty, rng *rand.Rand) (path []naughty, forcedWin bool) {
	node := root
	path = append(path, node)

	for {
		state := ut.states[int(node)]
		if ended, _ := state.Ended(); ended {
			return path, false
		}

		unexplored := ut.unexplored[int(node)]
		if len(unexplored) > 0 {
			idx := rng.Intn(len(unexplored))
			move := unexplored[idx]
			unexplored[idx] = unexplored[len(unexplored)-1]
			ut.unexplored[int(node)] = unexplored[:len(unexplored)-1]

			childState := state.Apply(move)
			child := ut.alloc(int32(move.FixedIndex()), state.Turn(), childState)
			ut.nodeFromNaughty(node).AddChild(child)
			path = append(path, child)

			if ended, winner := childState.Ended(); ended && winner == ut.owner[int(child)] {
				return path, true
			}
			return path, false
		}

		parentTurn := state.Turn()
		forced := nilNode
		for _, kid := range ut.Children(node) {
			if ended, winner := ut.states[int(kid)].Ended(); ended && winner == parentTurn {
				forced = kid
				break
			}
		}

		next := forced
		if next == nilNode {
			next = ut.nodeFromNaughty(node).SelectUCB1(ucbExploration)
			if next == nilNode {
				return path, false
			}
		}
		path = append(path, next)
		if forced != nilNode {
			return path, true
		}
		node = next
	}
}

// rollout plays uniformly random legal moves from state until the game ends
// or MaxDepth plies pass, and scores 1 for a rootPlayer win, 0 otherwise
// (including the depth-capped draw case).
func (u *UCB1) rollout(state *controller.Controller, rootPlayer uint8, rng *rand.Rand) float32 {
	current := state
	for depth := 0; depth < u.MaxDepth; depth++ {
		if ended, winner := current.Ended(); ended {
			if winner == rootPlayer {
				return 1
			}
			return 0
		}
		moves := current.EnumerateMoves()
		if len(moves) == 0 {
			return 0
		}
		current = current.Apply(moves[rng.Intn(len(moves))])
	}
	if ended, winner := current.Ended(); ended && winner == rootPlayer {
		return 1
	}
	return 0
}

// backpropagate walks the root-to-leaf path, crediting each non-root node's
// reward relative to its own owner: a node produced by the same player who
// eventually earned reward gets reward as-is, the opponent's nodes get it
// inverted. The root only gains a visit, matching the plain-UCB1 invariant
// that N(parent) in the exploration term excludes the root's own value.
func (ut *ucbTree) backpropagate(path []naughty, rootPlayer uint8, reward float32) {
	for i, id := range path {
		n := ut.nodeFromNaughty(id)
		if i == 0 {
			n.lock.Lock()
			n.visits++
			n.lock.Unlock()
			continue
		}
		if ut.owner[int(id)] == rootPlayer {
			n.Update(reward)
		} else {
			n.Update(1 - reward)
		}
	}
}
