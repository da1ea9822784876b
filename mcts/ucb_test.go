package mcts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/mcts"
)

func TestUCB1SelectMoveReturnsALegalMove(t *testing.T) {
	game := freshGame(11)
	legal := game.EnumerateMoves()
	require.NotEmpty(t, legal)

	u := mcts.NewUCB1(16, 2, 32)
	u.Parallel = false

	move, _ := u.SelectMove(game)
	require.True(t, game.Check(move))
}

func TestUCB1SelectMoveWithASingleLegalMoveReturnsItDirectly(t *testing.T) {
	game := freshGame(12)
	// Three draft picks leave one wonder in the first draft round.
	for i := 0; i < 3; i++ {
		game = game.Apply(game.EnumerateMoves()[0])
	}
	legal := game.EnumerateMoves()
	require.Len(t, legal, 1)

	u := mcts.NewUCB1(1, 1, 8)
	u.Parallel = false
	move, _ := u.SelectMove(game)
	require.True(t, game.Check(move))
	require.Equal(t, legal[0], move)
}
