package engine

import "github.com/sevenwd/sevenwd/catalog"

// NumDraftableWonders is the count of undrafted wonders on offer this
// round (exported for controller.EnumerateMoves).
func (gs *GameState) NumDraftableWonders() uint8 { return gs.getNumDraftableWonders() }

// DraftWonder picks the draftIndex'th remaining wonder of the current
// round (exported for controller.Controller.Play).
func (gs *GameState) DraftWonder(draftIndex uint8) { gs.draftWonder(draftIndex) }

// NextAge advances the card graph once the active one is exhausted
// (exported for controller.Controller.Play).
func (gs *GameState) NextAge() NextAgeResult { return gs.nextAge() }

// FindWinner computes the civil-VP winner once Age III is exhausted
// (exported for controller.Controller.Play).
func (gs *GameState) FindWinner() uint8 { return gs.findWinner() }

// GreatLibraryDraft returns the next (up to 3) undrawn entries of the
// Great Library's fixed, pre-shuffled reserve order (exported for
// controller.EnumerateMoves). See DESIGN.md decision #5.
func (gs *GameState) GreatLibraryDraft() []catalog.ScienceToken { return gs.greatLibraryDraft() }

// ComputeCost is the gold cost the current player would pay for card,
// exported for move enumeration (affordability checks) and tensorization.
func (gs *GameState) ComputeCost(card *catalog.Card) uint8 {
	return computeCost(card, &gs.Cities[gs.PlayerTurn], &gs.Cities[OtherPlayer(gs.PlayerTurn)])
}

// ComputeWonderCost is the gold cost the current player would pay for
// wonder.
func (gs *GameState) ComputeWonderCost(wonder catalog.Wonders) uint8 {
	card := gs.Catalog.Wonder(wonder)
	return computeCost(card, &gs.Cities[gs.PlayerTurn], &gs.Cities[OtherPlayer(gs.PlayerTurn)])
}

// ComputeCostFor is the gold cost city would pay for card given other as its
// opponent, for an arbitrary city pair (exported for tensorization, which
// needs both players' cost for the same card, not just the current turn's).
func ComputeCostFor(card *catalog.Card, city, other *PlayerCity) uint8 {
	return computeCost(card, city, other)
}

// ComputeVictoryPoint is city's civil VP score given other as the opponent.
func ComputeVictoryPoint(cat *catalog.Catalog, city, other *PlayerCity) uint8 {
	return computeVictoryPoint(cat, city, other)
}

// ComputeNumDiscoveriesIfPicked is the heuristic discoveries-if-picked
// signal for the playableIdx'th node of the active graph.
func (gs *GameState) ComputeNumDiscoveriesIfPicked(playableIdx uint8) int {
	return gs.computeNumDiscoveriesIfPicked(&gs.ActiveGraph, playableIdx)
}

// TotalUnbuiltWonders sums both cities' unbuilt-wonder counts (used by the
// 7-wonder-built cap check in move enumeration).
func (gs *GameState) TotalUnbuiltWonders() uint8 {
	return gs.Cities[0].UnbuildWonderCount + gs.Cities[1].UnbuildWonderCount
}
