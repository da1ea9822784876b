package mcts

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"

	"github.com/sevenwd/sevenwd/controller"
)

/*
Here lies the majority of the MCTS search code, while node.go and tree.go handle the
data structure side. The shape (arena of Nodes, naughty handles, worker-pool pipeline)
is carried over unchanged from a general-purpose AlphaZero-style search; only the game
binding (game.State -> *controller.Controller, chess.Color -> uint8 player) changed.
*/

const (
	MAXTREESIZE = 2000000 // a tree is at most this many nodes
)

// Inferencer is the neural network: given a state, it returns a move-policy
// distribution plus a scalar value estimate.
type Inferencer interface {
	Infer(state *controller.Controller) (policy []float32, value float32)
}

// Result is a NaN-tagged float32 used to represent "no result yet".
type Result float32

const noResultBits = 0x7FE00000

func noResult() Result {
	return Result(math32.Float32frombits(noResultBits))
}

func isNullResult(r Result) bool {
	b := math32.Float32bits(float32(r))
	return b == noResultBits
}

type searchState struct {
	tree    uintptr
	current *controller.Controller
	root    naughty
	depth   int

	maxPlayouts, maxVisits, maxDepth int
}

func (s *searchState) nodeCount() int32 {
	t := treeFromUintptr(s.tree)
	t.RLock()
	defer t.RUnlock()
	return int32(len(t.nodes))
}

func (s *searchState) incrementPlayout() {
	t := treeFromUintptr(s.tree)
	atomic.AddInt32(&t.playouts, 1)
}

func (s *searchState) minPsaRatio() float32 {
	ratio := float32(s.nodeCount()) / float32(MAXTREESIZE)
	switch {
	case ratio > 0.95:
		return 0.01
	case ratio > 0.5:
		return 0.001
	}
	return 0
}

// Search runs the PUCT search from t.current for t.Timeout (or until
// t.Budget playouts are spent) and returns the best move found.
func (t *MCTS) Search() (retVal controller.Move) {
	t.Lock()
	for _, f := range t.freeables {
		t.free(f)
	}
	t.freeables = t.freeables[:0]
	t.Unlock()

	if t.root == nilNode {
		t.root = t.New(-1, 0)
	}
	t.prepareRoot(t.current)

	ch := make(chan *searchState, runtime.NumCPU())
	var wg sync.WaitGroup
	for i := 0; i < runtime.NumCPU(); i++ {
		ss := &searchState{
			tree:     ptrFromTree(t),
			current:  t.current,
			root:     t.root,
			maxDepth: t.MaxDepth,
		}
		ch <- ss
	}

	var iter int32
	t.running.Store(true)
	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go doSearch(t.root, &iter, ch, ctx, &wg, t.Budget)
	}
	deadline := time.After(t.Timeout)
	tick := time.NewTicker(time.Millisecond)
wait:
	for {
		select {
		case <-deadline:
			break wait
		case <-tick.C:
			if !t.isRunning() {
				break wait
			}
		}
	}
	tick.Stop()
	cancel()
	wg.Wait()
	close(ch)

	root := t.nodeFromNaughty(t.root)
	if !root.HasChildren() {
		policy, _ := t.nn.Infer(t.current)
		moveID := argmax(policy)
		return t.current.NNToMove(moveID)
	}

	t.fillRootPolicies()
	retVal = t.current.NNToMove(int(t.bestMove()))
	return retVal
}

// fillRootPolicies turns the root's children visit counts into an improved
// policy: Pi on each child (consumed by fancySort/bestMove) and a dense
// action-space vector (consumed by Policies, the training target for a
// self-play example).
func (t *MCTS) fillRootPolicies() {
	children := t.Children(t.root)
	var total uint32
	for _, kid := range children {
		total += t.nodeFromNaughty(kid).Visits()
	}
	policies := make([]float32, t.current.ActionSpace())
	if total == 0 {
		t.policies = policies
		return
	}
	for _, kid := range children {
		child := t.nodeFromNaughty(kid)
		pi := float32(child.Visits()) / float32(total)
		child.SetPi(pi)
		if move := child.Move(); move >= 0 && int(move) < len(policies) {
			policies[move] = pi
		}
	}
	t.policies = policies
}

func (t *MCTS) isRunning() bool {
	running := t.running.Load().(bool)
	return running && t.nodeCount() < MAXTREESIZE
}

func doSearch(start naughty, iterBudget *int32, ch chan *searchState, ctx context.Context, wg *sync.WaitGroup, budget int32) {
	defer wg.Done()

loop:
	for {
		select {
		case s := <-ch:
			current := s.current.Clone()
			res := s.pipeline(current, start)
			if !isNullResult(res) {
				s.incrementPlayout()
			}

			t := treeFromUintptr(s.tree)
			val := atomic.AddInt32(iterBudget, 1)
			if budget > 0 && val > budget {
				t.running.Store(false)
			}
			if !t.isRunning() {
				ch <- s
				continue
			}
			if s.depth >= s.maxDepth {
				s.depth = 0
			}
			ch <- s
		case <-ctx.Done():
			break loop
		}
	}
}

// pipeline is a recursive MCTS pipeline: SELECT, EXPAND, SIMULATE, BACKPROPAGATE,
// rearranged for recursion into EXPAND+SIMULATE, SELECT+RECURSE, BACKPROPAGATE.
func (s *searchState) pipeline(current *controller.Controller, start naughty) (retVal Result) {
	retVal = noResult()
	s.depth++
	if s.depth > s.maxDepth {
		s.depth--
		return
	}
	player := current.Turn()

	if ended, winner := current.Ended(); ended {
		if winner == controller.NoWinner {
			return 0
		}
		if player == winner {
			return -1
		}
		return 1
	}
	nodeCount := s.nodeCount()

	t := treeFromUintptr(s.tree)
	n := t.nodeFromNaughty(start)

	isExpandable := n.IsExpandable(0)
	if isExpandable && nodeCount < MAXTREESIZE {
		hadChildren := n.HasChildren()
		value, ok := s.expandAndSimulate(start, current, s.minPsaRatio())
		if !hadChildren && ok {
			retVal = Result(value)
		}
	}

	if n.HasChildren() && isNullResult(retVal) {
		next := t.nodeFromNaughty(n.Select())
		moveIdx := next.Move()
		move := current.NNToMove(int(moveIdx))
		if current.Check(move) {
			nextState := current.Apply(move)
			retVal = s.pipeline(nextState, next.id)
		}
	}

	if !isNullResult(retVal) {
		n.Update(float32(retVal))
	}
	s.depth--
	return -retVal
}

func (s *searchState) expandAndSimulate(parent naughty, state *controller.Controller, minPsaRatio float32) (value float32, ok bool) {
	t := treeFromUintptr(s.tree)
	n := t.nodeFromNaughty(parent)

	if !n.IsExpandable(minPsaRatio) {
		return 0, false
	}

	var policy []float32
	policy, value = t.nn.Infer(state)

	var nodelist []pair
	var legalSum float32

	legalMoves := state.EnumerateMoves()
	seen := make(map[int32]bool, len(legalMoves))
	for _, m := range legalMoves {
		idx := int32(m.FixedIndex())
		if seen[idx] {
			continue
		}
		seen[idx] = true
		nodelist = append(nodelist, pair{Score: policy[idx], Move: idx})
		legalSum += policy[idx]
	}

	if legalSum > math32.SmallestNonzeroFloat32 {
		for i := range nodelist {
			nodelist[i].Score /= legalSum
		}
	} else if len(nodelist) > 0 {
		prob := 1 / float32(len(nodelist))
		for i := range nodelist {
			nodelist[i].Score = prob
		}
	}

	if len(nodelist) == 0 {
		return value, true
	}
	sort.Sort(byScore(nodelist))
	maxPsa := nodelist[0].Score
	oldMinPsa := maxPsa * n.MinPsaRatio()
	newMinPsa := maxPsa * minPsaRatio

	var skippedChildren bool
	for _, p := range nodelist {
		if p.Score < newMinPsa {
			skippedChildren = true
		} else if p.Score < oldMinPsa {
			if nn := n.findChild(p.Move); nn == nilNode {
				nn := t.New(p.Move, p.Score)
				n.AddChild(nn)
			}
		}
	}
	if skippedChildren {
		atomic.StoreUint32(&n.minPSARatioChildren, math32.Float32bits(minPsaRatio))
	} else {
		atomic.StoreUint32(&n.minPSARatioChildren, 0)
	}
	return value, true
}

func (t *MCTS) bestMove() int32 {
	children := t.children[t.root]
	t.childLock[t.root].Lock()
	sort.Sort(fancySort{l: children, t: t})
	t.childLock[t.root].Unlock()

	if t.current.MoveNumber() < t.Config.RandomCount {
		idx := t.sampleChild()
		if idx < len(children) {
			return t.nodeFromNaughty(children[idx]).Move()
		}
	}

	if len(children) == 0 {
		legal := t.current.EnumerateMoves()
		if len(legal) == 0 {
			return 0
		}
		return int32(legal[0].FixedIndex())
	}

	firstChild := t.nodeFromNaughty(children[0])
	return firstChild.Move()
}

func (t *MCTS) prepareRoot(state *controller.Controller) {
	root := t.nodeFromNaughty(t.root)
	hadChildren := len(t.children[t.root]) > 0
	expandable := root.IsExpandable(0)
	var value float32
	if expandable {
		value, _ = t.searchState.expandAndSimulate(t.root, state, t.minPsaRatio())
	}

	if hadChildren {
		value = root.QSA()
	} else {
		root.Update(value)
	}
}
