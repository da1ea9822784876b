package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
)

func TestFindWinnerBreaksAFullTieInFavorOfPlayerOne(t *testing.T) {
	cat := catalog.New(1)
	gs := NewGameState(cat)
	gs.Cities[0].VictoryPoints = 10
	gs.Cities[1].VictoryPoints = 10

	require.Equal(t, uint8(1), gs.findWinner())
}

func TestFindWinnerPrefersStrictlyMoreBlueCardsOnATiedVP(t *testing.T) {
	cat := catalog.New(1)
	gs := NewGameState(cat)
	gs.Cities[0].VictoryPoints = 10
	gs.Cities[1].VictoryPoints = 10
	gs.Cities[0].NumCardPerType[catalog.Blue] = 2
	gs.Cities[1].NumCardPerType[catalog.Blue] = 1

	require.Equal(t, uint8(0), gs.findWinner())
}

func TestFindWinnerStillFallsToPlayerOneWhenBlueCardsAlsoTie(t *testing.T) {
	cat := catalog.New(1)
	gs := NewGameState(cat)
	gs.Cities[0].VictoryPoints = 10
	gs.Cities[1].VictoryPoints = 10
	gs.Cities[0].NumCardPerType[catalog.Blue] = 3
	gs.Cities[1].NumCardPerType[catalog.Blue] = 3

	require.Equal(t, uint8(1), gs.findWinner())
}
