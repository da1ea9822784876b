package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
)

func TestFreshGameStateOffersOnlyTheFirstQuartet(t *testing.T) {
	cat := catalog.New(1)
	gs := NewGameState(cat)

	require.Equal(t, uint8(4), gs.getNumDraftableWonders())
}

func TestDraftWonderShrinksTheWindowOneRoundAtATime(t *testing.T) {
	cat := catalog.New(1)
	gs := NewGameState(cat)

	require.Equal(t, uint8(4), gs.getNumDraftableWonders())
	gs.draftWonder(0)
	require.Equal(t, uint8(3), gs.getNumDraftableWonders())
	gs.draftWonder(0)
	require.Equal(t, uint8(2), gs.getNumDraftableWonders())
	gs.draftWonder(0)
	require.Equal(t, uint8(1), gs.getNumDraftableWonders())

	// the 4th pick of round 0 advances to round 1 and resets the window to
	// a fresh quartet, never exposing wonders from the first round.
	gs.draftWonder(0)
	require.Equal(t, uint8(1), gs.CurrentDraftRound)
	require.Equal(t, uint8(4), gs.getNumDraftableWonders())
}

func TestDraftWonderNeverTouchesAnotherRoundsWindow(t *testing.T) {
	cat := catalog.New(1)
	gs := NewGameState(cat)

	secondQuartetBefore := gs.WonderDraftPool[4:8]
	snapshot := append([]catalog.Wonders(nil), secondQuartetBefore...)

	for i := 0; i < 4; i++ {
		gs.draftWonder(0)
	}

	require.Equal(t, snapshot, gs.WonderDraftPool[4:8])
}

func TestDraftWonderAssignsEachPlayerTheirPicks(t *testing.T) {
	cat := catalog.New(1)
	gs := NewGameState(cat)

	// round 0: p0 picks once, p1 picks twice, p0 picks once.
	gs.draftWonder(0)
	gs.draftWonder(0)
	gs.draftWonder(0)
	gs.draftWonder(0)

	require.Equal(t, uint8(2), gs.Cities[0].UnbuildWonderCount)
	require.Equal(t, uint8(2), gs.Cities[1].UnbuildWonderCount)
}
