package engine

import "github.com/sevenwd/sevenwd/catalog"

// recordPlayedAgeCard appends cardID to the played-card history, used by
// §3's invariant bookkeeping (numPlayedAgeCards + playable + hidden = total).
func (gs *GameState) recordPlayedAgeCard(cardID uint8) {
	gs.PlayedAgeCardIDs[gs.NumPlayedAgeCards] = cardID
	gs.NumPlayedAgeCards++
}

// Pick acquires the playableIdx'th playable card of the active graph for
// its computed cost, applying its side effects. Mirrors GameEngine::pick.
func (gs *GameState) Pick(playableIdx uint8) catalog.SpecialAction {
	g := &gs.ActiveGraph
	node := g.removePlayable(playableIdx)
	cardID := g.Nodes[node].CardID
	gs.unlinkNodeFromGraph(g, node)
	gs.recordPlayedAgeCard(uint8(cardID))

	card := gs.Catalog.GetCard(uint8(cardID))
	city := &gs.Cities[gs.PlayerTurn]
	other := &gs.Cities[OtherPlayer(gs.PlayerTurn)]

	cost := computeCost(card, city, other)
	if cost >= city.Gold {
		city.Gold = 0
	} else {
		city.Gold -= cost
	}
	if cost >= card.GoldCost() && other.HasToken(catalog.Economy) {
		other.Gold += cost - card.GoldCost()
	}

	action := addCard(gs.Catalog, card, city, other)
	if card.Military() > 0 {
		gs.updateMilitary(int8(card.Military()), true)
	}
	if gs.militaryWon() {
		gs.endByMilitary()
		return catalog.MilitaryWin
	}
	return action
}

// Burn discards the playableIdx'th playable card for 2 + owned-yellow-count
// gold. Mirrors GameEngine::burn.
func (gs *GameState) Burn(playableIdx uint8) {
	g := &gs.ActiveGraph
	node := g.removePlayable(playableIdx)
	cardID := g.Nodes[node].CardID
	gs.unlinkNodeFromGraph(g, node)
	gs.recordPlayedAgeCard(uint8(cardID))

	card := gs.Catalog.GetCard(uint8(cardID))
	gs.Discarded.add(gs.Catalog, card)

	city := &gs.Cities[gs.PlayerTurn]
	city.Gold += 2 + city.NumCardPerType[catalog.Yellow]
}

// BuildWonder consumes the playableIdx'th playable card to erect
// wonderSlot (an index into the current player's UnbuildWonders), applying
// the wonder's cost and any per-wonder special effect. additionalID names
// the effect's target (opponent production card to destroy for
// Zeus/Circus-Maximus, or a discarded card id to revive for Mausoleum);
// pass catalog.InvalidID when there is no target. Mirrors
// GameEngine::buildWonder.
func (gs *GameState) BuildWonder(playableIdx, wonderSlot uint8, additionalID uint8) catalog.SpecialAction {
	g := &gs.ActiveGraph
	node := g.removePlayable(playableIdx)
	cardID := g.Nodes[node].CardID
	gs.unlinkNodeFromGraph(g, node)
	gs.recordPlayedAgeCard(uint8(cardID))

	city := &gs.Cities[gs.PlayerTurn]
	other := &gs.Cities[OtherPlayer(gs.PlayerTurn)]

	wonder := city.UnbuildWonders[wonderSlot]
	last := city.UnbuildWonderCount - 1
	city.UnbuildWonders[wonderSlot] = city.UnbuildWonders[last]
	city.UnbuildWonderCount = last

	wonderCard := gs.Catalog.Wonder(wonder)
	cost := computeCost(wonderCard, city, other)
	if cost >= city.Gold {
		city.Gold = 0
	} else {
		city.Gold -= cost
	}

	switch wonder {
	case catalog.ViaAppia:
		if other.Gold < 3 {
			other.Gold = 0
		} else {
			other.Gold -= 3
		}
	case catalog.Zeus, catalog.CircusMaximus:
		if additionalID != catalog.InvalidID {
			target := gs.Catalog.GetCard(additionalID)
			removeCard(target, other)
			other.NumCardPerType[target.Type()]--
			gs.Discarded.add(gs.Catalog, target)
		}
	case catalog.Mausoleum:
		if additionalID != catalog.InvalidID {
			gs.Discarded.removeID(additionalID)
			revived := gs.Catalog.GetCard(additionalID)
			addCard(gs.Catalog, revived, city, other)
		}
	}

	action := addCard(gs.Catalog, wonderCard, city, other)
	if wonderCard.Military() > 0 {
		gs.updateMilitary(int8(wonderCard.Military()), false)
	}

	if wonder == catalog.GreatLibrary && !gs.IsDeterministic {
		gs.shuffleUndrawnGreatLibrary(gs.Catalog.Rand())
	}

	if gs.militaryWon() {
		gs.endByMilitary()
		return catalog.MilitaryWin
	}
	return action
}

// PickScienceToken resolves picking tokenIndex: either the tokenIndex'th
// remaining board token (swap-removed), or — when fromGreatLibrary — the
// tokenIndex'th entry of greatLibraryDraft's up-to-3 undrawn offer (no
// removal from the reserve array, since that pool is consumed positionally
// via GreatLibraryDrawn). Mirrors GameEngine::pickScienceToken.
func (gs *GameState) PickScienceToken(tokenIndex uint8, fromGreatLibrary bool) catalog.SpecialAction {
	city := &gs.Cities[gs.PlayerTurn]
	other := &gs.Cities[OtherPlayer(gs.PlayerTurn)]

	var token catalog.ScienceToken
	if fromGreatLibrary {
		slot := gs.nthUndrawnGreatLibrarySlot(tokenIndex)
		token = gs.ScienceTokens[catalog.NumBoardTokens+slot]
		gs.GreatLibraryDrawn[slot] = true
	} else {
		token = gs.ScienceTokens[tokenIndex]
		last := gs.NumScienceToken - 1
		gs.ScienceTokens[tokenIndex] = gs.ScienceTokens[last]
		gs.NumScienceToken = last
	}

	card := gs.Catalog.ScienceToken(token)
	action := addCard(gs.Catalog, card, city, other)
	if gs.militaryWon() {
		gs.endByMilitary()
		return catalog.MilitaryWin
	}
	return action
}

// nthUndrawnGreatLibrarySlot maps a 0-based position within the current
// up-to-3 undrawn offer (as returned by greatLibraryDraft) back to its
// absolute index into GreatLibraryDrawn/ScienceTokens.
func (gs *GameState) nthUndrawnGreatLibrarySlot(n uint8) uint8 {
	var seen uint8
	for i, drawn := range gs.GreatLibraryDrawn {
		if !drawn {
			if seen == n {
				return uint8(i)
			}
			seen++
		}
	}
	return 0
}

func (gs *GameState) militaryWon() bool {
	return gs.Military >= 9 || gs.Military <= -9
}

func (gs *GameState) endByMilitary() {
	if gs.Military >= 9 {
		gs.State = StateWinPlayer0
	} else {
		gs.State = StateWinPlayer1
	}
}
