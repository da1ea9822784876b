package mcts

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/sevenwd/sevenwd/controller"
)

// Config configures a search tree's PUCT policy and search budget.
type Config struct {
	PUCT float32 // exploration constant multiplying the prior term in Node.Select's PUCT score

	RandomCount       int // if the move number is less than this, sample instead of taking the best move
	RandomTemperature float32
	MaxDepth          int
	NumSimulation     int // careful: high values can starve goroutines
	Timeout           time.Duration
	Budget            int32 // 0 means unbounded (Timeout-only)
}

func DefaultConfig() Config {
	return Config{
		PUCT:              1.0,
		RandomTemperature: 1.0,
		NumSimulation:     1,
		MaxDepth:          64,
		Timeout:           time.Second,
	}
}

func (c Config) IsValid() bool {
	return c.RandomTemperature > 0 && c.NumSimulation > 0
}

// MCTS is the search tree manager: node storage, freelist, and the shared
// searchState used by the worker pool.
type MCTS struct {
	sync.RWMutex
	Config
	nn   Inferencer
	rand *rand.Rand

	nodes    []Node
	children [][]naughty

	freelist  []naughty
	freeables []naughty

	searchState
	nc       int32 // atomic
	playouts int32 // atomic
	policies []float32

	running   atomic.Value // bool
	childLock []sync.Mutex

	dirichletSample []float64
}

const dirichletParam = 0.3

func New(game *controller.Controller, conf Config, nn Inferencer) *MCTS {
	retVal := &MCTS{
		Config:   conf,
		nn:       nn,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		nodes:    make([]Node, 0, 4096),
		children: make([][]naughty, 0, 4096),
		searchState: searchState{
			root:    nilNode,
			current: game,
		},
	}
	retVal.running.Store(false)

	alpha := make([]float64, game.ActionSpace())
	for i := range alpha {
		alpha[i] = dirichletParam
	}

	dirichletDist := distmv.NewDirichlet(alpha, distrand.NewSource(uint64(time.Now().UnixNano())))
	retVal.dirichletSample = dirichletDist.Rand(nil)
	retVal.searchState.tree = ptrFromTree(retVal)
	retVal.searchState.maxDepth = conf.MaxDepth
	return retVal
}

// New allocates a fresh node for move with initial policy estimate score.
func (t *MCTS) New(move int32, score float32) (retVal naughty) {
	n := t.alloc()
	N := t.nodeFromNaughty(n)
	N.lock.Lock()
	defer N.lock.Unlock()
	N.move = move
	N.visits = 1
	N.status = uint32(Active)
	N.qsa = 0
	N.psa = score
	return n
}

// SetGame points the tree at a new game state, discarding any existing tree.
func (t *MCTS) SetGame(g *controller.Controller) {
	t.Lock()
	t.current = g
	t.Unlock()
	t.Reset()
}

func (t *MCTS) Nodes() int { return len(t.nodes) }

func (t *MCTS) Policies() ([]float32, error) {
	if t.policies == nil {
		return nil, fmt.Errorf("empty policies")
	}
	return t.policies, nil
}

func (t *MCTS) alloc() naughty {
	t.Lock()
	defer t.Unlock()
	l := len(t.freelist)
	if l == 0 {
		N := Node{
			lock:                sync.Mutex{},
			tree:                ptrFromTree(t),
			id:                  naughty(len(t.nodes)),
			hasChildren:         false,
			minPSARatioChildren: defaultMinPsaRatio,
		}
		t.nodes = append(t.nodes, N)
		t.children = append(t.children, make([]naughty, 0, t.current.ActionSpace()))
		t.childLock = append(t.childLock, sync.Mutex{})
		return naughty(len(t.nodes) - 1)
	}

	i := t.freelist[l-1]
	t.freelist = t.freelist[:l-1]
	return i
}

func (t *MCTS) free(n naughty) {
	t.children[int(n)] = t.children[int(n)][:0]
	t.freelist = append(t.freelist, n)
	N := &t.nodes[int(n)]
	N.reset()
}

// sampleChild samples a child of the root according to the visit-count
// distribution, used when below RandomCount move number.
func (t *MCTS) sampleChild() int {
	var accum, denominator float32
	var accumVector []float32
	children := t.Children(t.root)
	for _, kid := range children {
		child := t.nodeFromNaughty(kid)
		if child.IsValid() {
			visits := child.Visits()
			denominator += math32.Pow(float32(visits), 1/t.Config.RandomTemperature)
		}
	}

	for _, kid := range children {
		child := t.nodeFromNaughty(kid)
		numerator := math32.Pow(float32(child.Visits()), 1/t.Config.RandomTemperature)
		accum += numerator / denominator
		accumVector = append(accumVector, accum)
	}

	rnd := t.rand.Float32()
	var index int
	for i, a := range accumVector {
		if rnd < a {
			index = i
			break
		}
	}
	return index
}

// Reset discards the entire tree. Because the card graph makes a faithful
// subtree-reuse replay (undo/forward through the move history) expensive to
// get right, SetGame calls Reset, so a search on a new position builds a
// fresh root rather than attempting to splice in the previous tree — see
// DESIGN.md.
func (t *MCTS) Reset() {
	t.Lock()
	defer t.Unlock()

	t.freelist = t.freelist[:0]
	t.freeables = t.freeables[:0]
	for i := range t.nodes {
		t.nodes[i].move = -1
		t.nodes[i].visits = 0
		t.nodes[i].status = 0
		t.nodes[i].psa = 0
		t.nodes[i].hasChildren = false
		t.nodes[i].qsa = 0
	}
	t.nodes = t.nodes[:0]
	for i := range t.children {
		t.children[i] = t.children[i][:0]
	}
	t.children = t.children[:0]
	t.childLock = t.childLock[:0]
	t.root = nilNode
	t.policies = nil
	runtime.GC()
}
