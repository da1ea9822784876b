package ai

import (
	"context"
	"fmt"

	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/mcts"
)

// NetFactory builds a fresh mcts.Inferencer, typically a tensorize.Network
// wrapping a private dualnet.Inferer snapshot. MCTSAi calls it once for its
// own tree and once more per tournament worker via NewThreadContext, so the
// underlying dualnet.Dual must tolerate concurrent Infer snapshots (it
// does; see dualnet.Infer).
type NetFactory func() (mcts.Inferencer, error)

// MCTSAi drives a PUCT search backed by an mcts.Inferencer and returns the
// move with the most search visits. The tree held directly on MCTSAi is
// only safe for single-goroutine use; a tournament worker should instead
// obtain a ThreadContext (which embeds its own tree and net snapshot) and
// drive search through SelectMoveTC.
type MCTSAi struct {
	name    string
	conf    mcts.Config
	game    *controller.Controller
	factory NetFactory

	tree *mcts.MCTS
}

// NewMCTSAi builds an AI around a fresh search tree. game seeds the action
// space and Dirichlet noise sizing; it is discarded once the tree exists and
// every subsequent SelectMove points the tree at the real position.
func NewMCTSAi(name string, game *controller.Controller, conf mcts.Config, factory NetFactory) (*MCTSAi, error) {
	net, err := factory()
	if err != nil {
		return nil, fmt.Errorf("ai: build net for %q: %w", name, err)
	}
	return &MCTSAi{
		name:    name,
		conf:    conf,
		game:    game,
		factory: factory,
		tree:    mcts.New(game, conf, net),
	}, nil
}

func (a *MCTSAi) Name() string { return a.name }

// LastPolicies returns the dense 36-slot improved policy the most recent
// SelectMove call produced, for a tournament to record as a training target.
func (a *MCTSAi) LastPolicies() ([]float32, error) { return a.tree.Policies() }

func (a *MCTSAi) SelectMove(ctx context.Context, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error) {
	return selectMoveWith(a.tree, c, legal)
}

// mctsThreadContext is the per-worker scratch state NewThreadContext hands
// out: its own search tree over its own net snapshot, so concurrent
// tournament workers never share a tree or contend on one dualnet.Inferer.
type mctsThreadContext struct {
	tree *mcts.MCTS
	net  mcts.Inferencer
}

func (tc *mctsThreadContext) Close() error {
	if closer, ok := tc.net.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// NewThreadContext satisfies ThreadContexter.
func (a *MCTSAi) NewThreadContext() ThreadContext {
	net, err := a.factory()
	if err != nil {
		// Degrade to sharing the main tree rather than failing outright; a
		// tournament worker using this context alone (never concurrently
		// with the main-thread tree) is still correct, just not isolated.
		return &mctsThreadContext{tree: a.tree, net: nil}
	}
	return &mctsThreadContext{tree: mcts.New(a.game, a.conf, net), net: net}
}

// SelectMoveTC satisfies ThreadContextAI, running search against tc's own
// tree instead of a's.
func (a *MCTSAi) SelectMoveTC(ctx context.Context, c *controller.Controller, legal []controller.Move, tc ThreadContext) (controller.Move, float32, error) {
	wtc, ok := tc.(*mctsThreadContext)
	if !ok {
		return a.SelectMove(ctx, c, legal)
	}
	return selectMoveWith(wtc.tree, c, legal)
}

// FillPUCTPriors satisfies PUCTSource, reading back the most recent search's
// improved policy from whichever tree tc names (or a's own tree, if tc is
// nil or foreign).
func (a *MCTSAi) FillPUCTPriors(tc ThreadContext, out *[36]float32) {
	tree := a.tree
	if wtc, ok := tc.(*mctsThreadContext); ok {
		tree = wtc.tree
	}
	policies, err := tree.Policies()
	if err != nil {
		return
	}
	for i := 0; i < len(out) && i < len(policies); i++ {
		out[i] = policies[i]
	}
}

func selectMoveWith(tree *mcts.MCTS, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error) {
	if len(legal) == 0 {
		return controller.Move{}, 0, fmt.Errorf("ai: no legal moves")
	}
	tree.SetGame(c)
	move := tree.Search()
	if !c.Check(move) {
		return legal[0], 0, fmt.Errorf("ai: search returned illegal move %+v", move)
	}
	policies, err := tree.Policies()
	if err != nil || len(policies) <= int(move.FixedIndex()) {
		return move, 0, nil
	}
	return move, policies[move.FixedIndex()], nil
}
