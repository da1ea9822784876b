// Package tensorize turns a controller.Controller (or one of its playable
// cards) into the float32 feature vectors dualnet's policy/value network
// consumes, mirroring GameEngine.cpp's fillTensorData/fillExtraTensorData/
// fillTensorDataForPlayableCard field-for-field.
package tensorize

import (
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/engine"

	"gorgonia.org/vecf32"
)

// numCardTypesInGraph counts only the card colors that can appear face-up
// on the graph (Blue..Guild); Wonder/ScienceTokenType never do.
const numCardTypesInGraph = int(catalog.Guild) + 1

// scienceTokenCountForNN is how many of the ten science tokens are tracked
// per-city in the base tensor (Theology and above are rarer and omitted
// from per-player ownership flags, mirroring ScienceToken::CountForNN).
const scienceTokenCountForNN = int(catalog.Theology)

// BaseTensorSize is the width of Base's output. It is derived structurally
// from every field Base appends below rather than hardcoded to the
// original's declared constant of 83; see DESIGN.md for the reconciliation
// (the original's own field list does not reduce to 83 under direct
// translation either, so 83 is treated as a nominal historical figure, not
// a byte-for-byte contract).
var BaseTensorSize = computeBaseTensorSize()

func computeBaseTensorSize() int {
	const headerScalars = 4                                 // turn count, signed military, own/opp military tokens
	const tokenBoard = int(catalog.NumScienceTokens)         // one-hot remaining board tokens
	const discardScalars = 3                                 // best blue VP, best military shields, num discarded guilds
	const discardScienceFlags = int(catalog.NumScienceSymbols) - 1 // Law cannot be discarded
	const graphTypeCounts = numCardTypesInGraph
	const civilVP = 2 // own + opponent
	perCity := 4 /* chaining families */ +
		scienceTokenCountForNN +
		1 /* num science symbols */ +
		1 /* gold */ +
		1 /* yellow card count */ +
		int(catalog.NumResourceTypes)*2 /* production + discount */ +
		5 /* informative per-type owned counts */ +
		2 /* weak production pair */ +
		1 /* replay-wonders still unbuilt */
	return headerScalars + tokenBoard + discardScalars + discardScienceFlags + graphTypeCounts + civilVP + perCity*2
}

// Base fills the game-wide feature vector for mainPlayer's point of view.
func Base(c *controller.Controller, mainPlayer uint8) []float32 {
	gs := c.State
	opponent := engine.OtherPlayer(mainPlayer)
	out := make([]float32, 0, BaseTensorSize)

	military := float32(gs.Military)
	if mainPlayer != 0 {
		military = -military
	}
	out = append(out, float32(gs.NumTurnPlayed), military,
		militaryTokenCount(gs, mainPlayer), militaryTokenCount(gs, opponent))

	tokenFlags := make([]float32, catalog.NumScienceTokens)
	for i := uint8(0); i < gs.NumScienceToken; i++ {
		tokenFlags[gs.ScienceTokens[i]] = 1
	}
	out = append(out, tokenFlags...)

	out = append(out, bestDiscardedVP(gs), bestDiscardedMilitary(gs), float32(gs.Discarded.NumGuildCardIDs))
	for j := 0; j < int(catalog.NumScienceSymbols)-1; j++ {
		out = append(out, float32(gs.Discarded.ScienceCardIDs[j]))
	}

	typeCounts := make([]float32, numCardTypesInGraph)
	for i := range gs.ActiveGraph.Nodes {
		node := &gs.ActiveGraph.Nodes[i]
		if !node.Visible {
			continue
		}
		t := gs.Catalog.GetCard(uint8(node.CardID)).Type()
		if int(t) < numCardTypesInGraph {
			typeCounts[t]++
		}
	}
	out = append(out, typeCounts...)

	myCity := &gs.Cities[mainPlayer]
	otherCity := &gs.Cities[opponent]
	out = append(out, float32(engine.ComputeVictoryPoint(gs.Catalog, myCity, otherCity)),
		float32(engine.ComputeVictoryPoint(gs.Catalog, otherCity, myCity)))

	out = appendCity(out, myCity)
	out = appendCity(out, otherCity)
	return out
}

func militaryTokenCount(gs *engine.GameState, player uint8) float32 {
	var n float32
	if gs.MilitaryToken2[player] {
		n++
	}
	if gs.MilitaryToken5[player] {
		n++
	}
	return n
}

func bestDiscardedVP(gs *engine.GameState) float32 {
	if gs.Discarded.BestBlueCardID == catalog.InvalidID {
		return 0
	}
	return float32(gs.Catalog.GetCard(gs.Discarded.BestBlueCardID).VictoryPoints())
}

func bestDiscardedMilitary(gs *engine.GameState) float32 {
	if gs.Discarded.BestMilitaryCardID == catalog.InvalidID {
		return 0
	}
	return float32(gs.Catalog.GetCard(gs.Discarded.BestMilitaryCardID).Military())
}

var cardTypesForNN = [5]catalog.CardType{catalog.Yellow, catalog.Blue, catalog.Military, catalog.Science, catalog.Guild}

func appendCity(out []float32, city *engine.PlayerCity) []float32 {
	chaining := chainingFamilyCounts(city)
	out = append(out, chaining[:]...)

	for t := 0; t < scienceTokenCountForNN; t++ {
		if city.HasToken(catalog.ScienceToken(t)) {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}

	out = append(out, float32(city.NumScienceSymbols), float32(city.Gold), float32(city.NumCardPerType[catalog.Yellow]))

	for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
		out = append(out, float32(city.Production[r]))
		if city.ResourceDiscount[r] {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}

	for _, t := range cardTypesForNN {
		out = append(out, float32(city.NumCardPerType[t]))
	}

	out = append(out, float32(city.WeakProduction[0]), float32(city.WeakProduction[1]))

	var replayable float32
	for i := uint8(0); i < city.UnbuildWonderCount; i++ {
		if catalog.IsReplayWonder(city.UnbuildWonders[i]) || city.HasToken(catalog.Theology) {
			replayable++
		}
	}
	out = append(out, replayable)
	return out
}

// chainingFamilyCounts groups the 18 chaining symbols into the four color
// families (Yellow/Blue/Red/Green) the original sums into one scalar each.
func chainingFamilyCounts(city *engine.PlayerCity) [4]float32 {
	var counts [4]float32
	for s := catalog.NoChain + 1; s < catalog.NumChainingSymbols; s++ {
		if !city.HasChain(s) {
			continue
		}
		switch {
		case s >= catalog.FirstYellow && s <= catalog.LastYellow:
			counts[0]++
		case s >= catalog.FirstBlue && s <= catalog.LastBlue:
			counts[1]++
		case s >= catalog.FirstRed && s <= catalog.LastRed:
			counts[2]++
		case s >= catalog.FirstGreen && s <= catalog.LastGreen:
			counts[3]++
		}
	}
	return counts
}

// ToVec32 adapts a []float32 feature vector for gorgonia's tensor
// construction, which wants vecf32's allocator-friendly type.
func ToVec32(features []float32) vecf32.Vector {
	v := make(vecf32.Vector, len(features))
	copy(v, features)
	return v
}
