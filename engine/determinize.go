package engine

import (
	"math/rand"

	"github.com/sevenwd/sevenwd/catalog"
)

// MakeDeterministic resolves all remaining hidden randomness (undrafted
// wonders, the Great Library's reserve ordering, and the current age
// graph's face-down card identities) into one fixed draw, idempotently.
// MCTS always calls this before searching a root. Mirrors
// GameState::makeDeterministic.
func (gs *GameState) MakeDeterministic() {
	if gs.IsDeterministic {
		return
	}
	r := gs.Catalog.Rand()

	if gs.CurrentDraftRound < 2 {
		start := int(gs.CurrentDraftRound+1) * 4
		shuffleWonderTail(r, gs.WonderDraftPool[:gs.NumWonderDraftPool], start)
	}

	if gs.NumScienceToken > 0 {
		gs.shuffleUndrawnGreatLibrary(r)
	}

	if gs.CurrentDraftRound == 2 {
		g := &gs.Graphs[gs.CurrentAge]
		for i := 0; i < NumGraphNodes; i++ {
			gs.resolveCardID(g, uint8(i))
		}
		gs.ActiveGraph = *g
	}

	gs.IsDeterministic = true
}

// shuffleWonderTail reshuffles the not-yet-offered portion of the wonder
// draft pool (everything from start onward), leaving the currently visible
// round's quartet untouched.
func shuffleWonderTail(r *rand.Rand, pool []catalog.Wonders, start int) {
	if start >= len(pool) {
		return
	}
	tail := pool[start:]
	for i := len(tail) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		tail[i], tail[j] = tail[j], tail[i]
	}
}

// shuffleUndrawnGreatLibrary reshuffles the values occupying not-yet-drawn
// Great Library slots, leaving already-drawn slots fixed.
func (gs *GameState) shuffleUndrawnGreatLibrary(r *rand.Rand) {
	var undrawnIdx []int
	for i, drawn := range gs.GreatLibraryDrawn {
		if !drawn {
			undrawnIdx = append(undrawnIdx, int(catalog.NumBoardTokens)+i)
		}
	}
	for i := len(undrawnIdx) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		a, b := undrawnIdx[i], undrawnIdx[j]
		gs.ScienceTokens[a], gs.ScienceTokens[b] = gs.ScienceTokens[b], gs.ScienceTokens[a]
	}
}
