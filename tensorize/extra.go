package tensorize

import (
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/engine"
)

// TensorSizePerPlayableCard and TensorSizePerWonder are the per-slot widths
// Extra lays its playable-card and unbuilt-wonder blocks out with, matching
// GameEngine.h's declared constants exactly (these, unlike BaseTensorSize,
// reduce cleanly under direct translation).
const (
	TensorSizePerPlayableCard = 18
	TensorSizePerWonder       = 9
	maxPlayableCardSlots      = 6
	maxUnbuiltWonderSlots     = 4
)

// ExtraTensorSize is the width of Extra's output: a one-float mode header
// plus up to 6 playable-card slots and 4 unbuilt-wonder slots.
const ExtraTensorSize = 1 + TensorSizePerPlayableCard*maxPlayableCardSlots + TensorSizePerWonder*maxUnbuiltWonderSlots

// Extra fills the move-conditioned feature vector used to help the policy
// head attend to the actual choices on offer this turn: during Play, one
// slot per playable card and one per unbuilt wonder of the player to move,
// with empty slots filled with -1 (fillExtraTensorData's sentinel for "no
// such choice"); during a token pick, a one-hot science-token offer. Entries
// not written stay 0, and the wonder draft leaves the body all zeros.
func Extra(c *controller.Controller) []float32 {
	out := make([]float32, ExtraTensorSize)
	gs := c.State

	switch gs.State {
	case engine.StatePlay:
		out[0] = 0
		body := out[1:]
		for i := uint8(0); i < gs.ActiveGraph.NumPlayableCards; i++ {
			fillPlayableCard(body[int(i)*TensorSizePerPlayableCard:], gs, i, gs.PlayerTurn)
		}
		for i := gs.ActiveGraph.NumPlayableCards; i < maxPlayableCardSlots; i++ {
			fillSentinel(body[int(i)*TensorSizePerPlayableCard : int(i+1)*TensorSizePerPlayableCard])
		}

		wonderBlock := body[maxPlayableCardSlots*TensorSizePerPlayableCard:]
		myCity := &gs.Cities[gs.PlayerTurn]
		otherCity := &gs.Cities[engine.OtherPlayer(gs.PlayerTurn)]
		for i := uint8(0); i < myCity.UnbuildWonderCount; i++ {
			fillWonderSlot(wonderBlock[int(i)*TensorSizePerWonder:], gs, myCity, otherCity, myCity.UnbuildWonders[i])
		}
		for i := myCity.UnbuildWonderCount; i < maxUnbuiltWonderSlots; i++ {
			fillSentinel(wonderBlock[int(i)*TensorSizePerWonder : int(i+1)*TensorSizePerWonder])
		}

	case engine.StatePickScienceToken, engine.StateGreatLibraryToken, engine.StateGreatLibraryTokenThenReplay:
		out[0] = 1
		body := out[1:]
		poolBegin, poolEnd := 0, int(gs.NumScienceToken)
		if gs.State != engine.StatePickScienceToken {
			poolBegin, poolEnd = int(catalog.NumBoardTokens), int(catalog.NumBoardTokens)+3
		}
		for i := poolBegin; i < poolEnd && i < len(gs.ScienceTokens); i++ {
			offset := (i - poolBegin) * int(catalog.NumScienceTokens)
			if offset+int(catalog.NumScienceTokens) > len(body) {
				break
			}
			body[offset+int(gs.ScienceTokens[i])] = 1
		}

	default: // StateDraftWonder: nothing to condition on yet
	}

	return out
}

func fillSentinel(slot []float32) {
	for i := range slot {
		slot[i] = -1
	}
}

func fillPlayableCard(slot []float32, gs *engine.GameState, playableIdx, mainPlayer uint8) {
	otherPlayer := engine.OtherPlayer(mainPlayer)
	myCity := &gs.Cities[mainPlayer]
	otherCity := &gs.Cities[otherPlayer]

	nodeID := gs.ActiveGraph.PlayableCards[playableIdx]
	card := gs.Catalog.GetCard(uint8(gs.ActiveGraph.Nodes[nodeID].CardID))

	i := 0
	put := func(v float32) { slot[i] = v; i++ }

	if card.Type() == catalog.Yellow {
		put(1)
	} else {
		put(0)
	}
	if card.Type() == catalog.Guild {
		put(1)
	} else {
		put(0)
	}

	for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
		put(float32(card.Production(r)))
	}

	if card.Science() < catalog.NumScienceSymbols {
		if myCity.OwnedScienceSymbol[card.Science()] > 0 {
			put(-1)
		} else {
			put(1)
		}
		if otherCity.OwnedScienceSymbol[card.Science()] > 0 {
			put(-1)
		} else {
			put(1)
		}
	} else {
		put(0)
		put(0)
	}

	goldReward := cardGoldReward(card, myCity, otherCity)
	vp := cardVictoryPoints(gs.Catalog, card, myCity, otherCity, goldReward)

	put(vp)
	put(goldReward)
	put(float32(card.Military()))
	if card.ChainOut() != catalog.NoChain {
		put(1)
	} else {
		put(0)
	}
	if card.IsWeakProduction() {
		put(1)
	} else {
		put(0)
	}
	if card.IsResourceDiscount() {
		put(1)
	} else {
		put(0)
	}
	put(float32(engine.ComputeCostFor(card, myCity, otherCity)))
	put(float32(engine.ComputeCostFor(card, otherCity, myCity)))
	put(float32(gs.ComputeNumDiscoveriesIfPicked(playableIdx)))
}

func cardGoldReward(card *catalog.Card, myCity, otherCity *engine.PlayerCity) float32 {
	var reward uint8
	if myCity.HasToken(catalog.TownPlanning) && card.ChainIn() != catalog.NoChain && myCity.HasChain(card.ChainIn()) {
		reward += 4
	}
	switch {
	case card.GoldPerCardColorType():
		reward += myCity.NumCardPerType[card.SecondaryType()] * card.GoldReward()
	case card.Type() == catalog.Guild && card.SecondaryType() < uint8(catalog.NumCardTypes):
		own := myCity.NumCardPerType[card.SecondaryType()]
		other := otherCity.NumCardPerType[card.SecondaryType()]
		n := own
		if other > n {
			n = other
		}
		reward += n * card.GoldReward()
	default:
		reward += card.GoldReward()
	}
	return float32(reward)
}

func cardVictoryPoints(cat *catalog.Catalog, card *catalog.Card, myCity, otherCity *engine.PlayerCity, goldReward float32) float32 {
	if card.Type() != catalog.Guild {
		return float32(card.VictoryPoints())
	}
	if card.SecondaryType() < uint8(catalog.NumCardTypes) {
		own := myCity.NumCardPerType[card.SecondaryType()]
		other := otherCity.NumCardPerType[card.SecondaryType()]
		n := own
		if other > n {
			n = other
		}
		return float32(card.VictoryPoints()) * float32(n)
	}
	// Guild scoring per gold banked rather than per card: approximate with
	// the gold reward this pick would bring in, divided by 3.
	return goldReward / 3
}

func fillWonderSlot(slot []float32, gs *engine.GameState, myCity, otherCity *engine.PlayerCity, wonder catalog.Wonders) {
	card := gs.Catalog.Wonder(wonder)
	i := 0
	put := func(v float32) { slot[i] = v; i++ }

	put(float32(card.VictoryPoints()))
	put(float32(card.Military()))
	if catalog.IsReplayWonder(wonder) || myCity.HasToken(catalog.Theology) {
		put(1)
	} else {
		put(0)
	}
	if card.IsWeakProduction() {
		put(float32(card.Production(catalog.Wood)))
	} else {
		put(0)
	}
	if card.IsWeakProduction() {
		put(float32(card.Production(catalog.Glass)))
	} else {
		put(0)
	}
	put(float32(card.GoldReward()))
	if wonder == catalog.Zeus || wonder == catalog.CircusMaximus {
		put(1)
	} else {
		put(0)
	}
	if wonder == catalog.GreatLibrary {
		put(1)
	} else {
		put(0)
	}
	if wonder == catalog.Mausoleum {
		put(1)
	} else {
		put(0)
	}
	// The original writes a 10th "cost" field past its own declared
	// TensorSizePerWonder=9 stride, overflowing into the next wonder slot.
	// Dropped rather than reproduced; cost is already the subject of the
	// game's own affordability check during move enumeration.
}
