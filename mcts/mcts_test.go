package mcts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/mcts"
)

// uniformInferencer always reports a uniform policy over the fixed action
// space and a neutral value, enough to exercise the PUCT search machinery
// without a trained network.
type uniformInferencer struct{}

func (uniformInferencer) Infer(c *controller.Controller) ([]float32, float32) {
	policy := make([]float32, controller.MaxNumMoves)
	p := float32(1) / float32(len(policy))
	for i := range policy {
		policy[i] = p
	}
	return policy, 0
}

func freshGame(seed int64) *controller.Controller {
	cat := catalog.New(seed)
	return controller.New(cat)
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.True(t, mcts.DefaultConfig().IsValid())
}

func TestConfigIsValidRejectsNonPositiveFields(t *testing.T) {
	conf := mcts.DefaultConfig()
	conf.RandomTemperature = 0
	require.False(t, conf.IsValid())

	conf = mcts.DefaultConfig()
	conf.NumSimulation = 0
	require.False(t, conf.IsValid())
}

func TestSearchReturnsALegalMoveAndFillsPolicies(t *testing.T) {
	game := freshGame(1)
	conf := mcts.DefaultConfig()
	conf.Timeout = 20 * time.Millisecond
	conf.Budget = 50

	tree := mcts.New(game, conf, uniformInferencer{})
	move := tree.Search()
	require.True(t, game.Check(move))

	policies, err := tree.Policies()
	require.NoError(t, err)
	require.Len(t, policies, int(game.ActionSpace()))
}

func TestPoliciesErrorsBeforeAnySearchHasRun(t *testing.T) {
	game := freshGame(2)
	conf := mcts.DefaultConfig()
	tree := mcts.New(game, conf, uniformInferencer{})
	_, err := tree.Policies()
	require.Error(t, err)
}

func TestSetGameDiscardsTheTree(t *testing.T) {
	game := freshGame(3)
	conf := mcts.DefaultConfig()
	conf.Timeout = 10 * time.Millisecond
	conf.Budget = 20

	tree := mcts.New(game, conf, uniformInferencer{})
	tree.Search()
	require.Greater(t, tree.Nodes(), 0)

	legal := game.EnumerateMoves()
	require.NotEmpty(t, legal)
	next := game.Apply(legal[0])
	tree.SetGame(next)
	require.Equal(t, 0, tree.Nodes())
}
