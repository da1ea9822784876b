package engine

import "github.com/sevenwd/sevenwd/catalog"

// initWonderDraft resets both cities to draft start (7 gold, no wonders
// built) and shuffles all 12 wonders into the draft pool.
func (gs *GameState) initWonderDraft() {
	gs.PlayerTurn = 0
	gs.CurrentDraftRound = 0
	gs.PicksInRound = 0
	for i := range gs.Cities {
		gs.Cities[i].Gold = 7
		gs.Cities[i].UnbuildWonderCount = 0
	}
	for i := 0; i < int(catalog.NumWonders); i++ {
		gs.WonderDraftPool[i] = catalog.Wonders(i)
	}
	gs.NumWonderDraftPool = uint8(catalog.NumWonders)
	shuffleWonders(gs.Catalog.Rand(), gs.WonderDraftPool[:])
}

func shuffleWonders(r interface{ Intn(int) int }, pool []catalog.Wonders) {
	for i := len(pool) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}

// getNumDraftableWonders is the count of undrafted wonders currently on
// offer: always 4 at the start of a round, shrinking by one with each pick
// within that round. Mirrors GameState::getNumDraftableWonders, which bounds
// this to the current round's quartet rather than the whole draft pool.
func (gs *GameState) getNumDraftableWonders() uint8 {
	return 4 - gs.PicksInRound
}

// draftWonder resolves picking the draftIndex'th remaining wonder of the
// current round's 4-wide window, advancing the alternating-pick state
// machine. Mirrors GameEngine.cpp's draftWonder and its
// firstPickableWonderIndex/lastPickableWonderIndex windowing.
func (gs *GameState) draftWonder(draftIndex uint8) {
	roundStart := gs.CurrentDraftRound * 4
	absIndex := roundStart + draftIndex
	wonder := gs.WonderDraftPool[absIndex]

	// swap-remove within the round's own 4-wide window, never touching
	// wonders belonging to a different round.
	lastInWindow := roundStart + gs.getNumDraftableWonders() - 1
	gs.WonderDraftPool[absIndex] = gs.WonderDraftPool[lastInWindow]

	city := &gs.Cities[gs.PlayerTurn]
	city.UnbuildWonders[city.UnbuildWonderCount] = wonder
	city.UnbuildWonderCount++

	gs.PicksInRound++
	switch gs.PicksInRound {
	case 1:
		gs.PlayerTurn = OtherPlayer(gs.PlayerTurn)
	case 2:
		// same player picks again
	case 3:
		gs.PlayerTurn = OtherPlayer(gs.PlayerTurn)
	case 4:
		gs.CurrentDraftRound++
		gs.PicksInRound = 0
		if gs.CurrentDraftRound == 1 {
			gs.PlayerTurn = 1
		} else {
			gs.finishWonderDraft()
		}
	}
}

func (gs *GameState) finishWonderDraft() {
	gs.CurrentDraftRound = 2
	gs.PlayerTurn = 0
	gs.initScienceTokens()
	gs.initAge1(false)
}

// initScienceTokens shuffles the fixed 10-token list; the first 5 are the
// board offer, the last 5 are the Great Library reserve.
func (gs *GameState) initScienceTokens() {
	tokens := [catalog.NumScienceTokens]catalog.ScienceToken{
		catalog.Agriculture, catalog.Architecture, catalog.Economy, catalog.LawToken, catalog.Masonry,
		catalog.Mathematics, catalog.Philosophy, catalog.Strategy, catalog.Theology, catalog.TownPlanning,
	}
	r := gs.Catalog.Rand()
	for i := len(tokens) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	gs.ScienceTokens = tokens
	gs.NumScienceToken = catalog.NumBoardTokens
}

// greatLibraryDraft returns the (already shuffled, deterministic) next-up
// entries of the Great Library reserve that have not yet been drawn. See
// DESIGN.md decision #5.
func (gs *GameState) greatLibraryDraft() []catalog.ScienceToken {
	out := make([]catalog.ScienceToken, 0, 3)
	for i, drawn := range gs.GreatLibraryDrawn {
		if !drawn {
			out = append(out, gs.ScienceTokens[catalog.NumBoardTokens+i])
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}

func (gs *GameState) initAge1(makeDeterministic bool) {
	gs.CurrentAge = 0
	g := &gs.Graphs[0]
	*g = CardGraph{Age: 0}
	genPyramidGraph(g, 5, 0, false)
	gs.fillAgePool(g, gs.Catalog.Age1CardCount())
	gs.finishGraphInit(g, makeDeterministic)
}

func (gs *GameState) initAge2(makeDeterministic bool) {
	gs.CurrentAge = 1
	g := &gs.Graphs[1]
	*g = CardGraph{Age: 1}
	genInversePyramidGraph(g, 6, 5, 0, false)
	gs.fillAgePool(g, gs.Catalog.Age2CardCount())
	gs.finishGraphInit(g, makeDeterministic)
}

// initAge3 builds the hybrid pyramid + connectors + inverted-pyramid graph
// (20 nodes, 3 of them randomly tagged as guild slots).
func (gs *GameState) initAge3(makeDeterministic bool) {
	gs.CurrentAge = 2
	g := &gs.Graphs[2]
	*g = CardGraph{Age: 2}

	// Rows: 2 (apex) / 3 / 4 / 2 (connectors) / 4 / 3 / 2 (base).
	genPyramidGraph(g, 3, 0, false) // nodes 0..8, last row = 5..8

	c0, c1 := 9, 10
	g.Nodes[c0] = newNode(false)
	g.Nodes[c1] = newNode(false)
	linkParentChild(g, 5, uint8(c0))
	linkParentChild(g, 6, uint8(c0))
	linkParentChild(g, 7, uint8(c1))
	linkParentChild(g, 8, uint8(c1))

	// expand back out to width 4 (nodes 11..14), diamond-wired from the
	// two connectors.
	for i, node := range []int{11, 12, 13, 14} {
		g.Nodes[node] = newNode(false)
		g.Nodes[node].Visible = true
		switch i {
		case 0:
			linkParentChild(g, c0, uint8(node))
		case 1:
			linkParentChild(g, c0, uint8(node))
			linkParentChild(g, c1, uint8(node))
		case 2:
			linkParentChild(g, c0, uint8(node))
			linkParentChild(g, c1, uint8(node))
		case 3:
			linkParentChild(g, c1, uint8(node))
		}
	}

	// shrink back down: width 4 -> 3 -> 2 (nodes 15..19), inverse-pyramid
	// style, starting from the width-4 row just built.
	genInversePyramidGraph(g, 3, 2, 15, false)
	// genInversePyramidGraph above assumed its own first row has no
	// parents; wire that first row (nodes 15..17) to the width-4 row
	// (11..14) before continuing.
	for i, node := range []int{15, 16, 17} {
		g.Nodes[node].Parent0 = uint8(11 + i)
		g.Nodes[node].Parent1 = uint8(11 + i + 1)
		wireChild(g, 11+i, uint8(node))
		wireChild(g, 11+i+1, uint8(node))
	}

	// The bottom row is always the initial playable row and must be
	// visible regardless of the row-parity the inverse-pyramid helper
	// assigned it.
	g.Nodes[18].Visible = true
	g.Nodes[19].Visible = true

	// Randomly tag 3 nodes as guild slots.
	r := gs.Catalog.Rand()
	tagged := 0
	guildSlots := map[int]bool{}
	for tagged < 3 {
		idx := r.Intn(NumGraphNodes)
		if !guildSlots[idx] {
			guildSlots[idx] = true
			tagged++
		}
	}
	for idx := range guildSlots {
		g.Nodes[idx].IsGuildCard = true
		g.Nodes[idx].CardID = InvalidCardID
	}

	gs.fillAgePool(g, gs.Catalog.Age3CardCount())
	for i := 0; i < gs.Catalog.GuildCardCount(); i++ {
		g.AvailableGuildCards[i] = uint8(i)
	}
	g.NumAvailableGuildCards = uint8(gs.Catalog.GuildCardCount())

	gs.finishGraphInit(g, makeDeterministic)
}

func linkParentChild(g *CardGraph, parent int, child uint8) {
	if g.Nodes[parent].Child0 == InvalidNode {
		g.Nodes[parent].Child0 = child
	} else {
		g.Nodes[parent].Child1 = child
	}
	if g.Nodes[child].Parent0 == InvalidNode {
		g.Nodes[child].Parent0 = uint8(parent)
	} else {
		g.Nodes[child].Parent1 = uint8(parent)
	}
}

func (gs *GameState) fillAgePool(g *CardGraph, count int) {
	for i := 0; i < count; i++ {
		g.AvailableAgeCards[i] = uint8(i)
	}
	g.NumAvailableAgeCards = uint8(count)
}

// finishGraphInit records the bottom row as playable and, if
// makeDeterministic, resolves every node up front; otherwise only the
// visible ones are resolved now and the rest resolve lazily on reveal.
func (gs *GameState) finishGraphInit(g *CardGraph, makeDeterministic bool) {
	last := NumGraphNodes - playableRowWidth(g.Age)
	g.NumPlayableCards = 0
	for i := last; i < NumGraphNodes; i++ {
		g.PlayableCards[g.NumPlayableCards] = uint8(i)
		g.NumPlayableCards++
	}
	for i := 0; i < NumGraphNodes; i++ {
		if g.Nodes[i].Visible {
			gs.resolveNode(g, uint8(i))
		} else if makeDeterministic {
			gs.resolveCardID(g, uint8(i))
		}
	}
	gs.ActiveGraph = *g
}

func playableRowWidth(age uint8) int {
	switch age {
	case 0:
		return 6
	case 1:
		return 2
	default:
		return 2
	}
}

// updateMilitary shifts the military track by delta (positive favors
// player 0), applying the Strategy-token +1 bonus to picks (not wonders,
// per applyStrategyBonus=false callers) and firing one-shot gold tolls the
// first time |military| crosses 3 or 6.
func (gs *GameState) updateMilitary(delta int8, applyStrategyBonus bool) {
	if delta == 0 {
		return
	}
	player := gs.PlayerTurn
	if applyStrategyBonus && gs.Cities[player].HasToken(catalog.Strategy) {
		delta++
	}
	if player == 1 {
		delta = -delta
	}
	gs.Military += delta
	if gs.Military > 9 {
		gs.Military = 9
	}
	if gs.Military < -9 {
		gs.Military = -9
	}

	abs := gs.Military
	if abs < 0 {
		abs = -abs
	}
	// loser is whichever side the track has moved against
	idx := 0
	if gs.Military > 0 {
		idx = 1
	}
	if abs >= 3 && !gs.MilitaryToken2[idx] {
		gs.MilitaryToken2[idx] = true
		gs.payMilitaryToll(idx, 2)
	}
	if abs >= 6 && !gs.MilitaryToken5[idx] {
		gs.MilitaryToken5[idx] = true
		gs.payMilitaryToll(idx, 5)
	}
}

func (gs *GameState) payMilitaryToll(loser int, amount uint8) {
	if gs.Cities[loser].Gold < amount {
		gs.Cities[loser].Gold = 0
	} else {
		gs.Cities[loser].Gold -= amount
	}
}

// NextAgeResult signals what should happen after a playable-card pool is
// exhausted.
type NextAgeResult uint8

const (
	NextAgeNone NextAgeResult = iota
	NextAgeAdvanced
	NextAgeEndGame
)

// nextAge advances to the next card graph once the current one is
// exhausted, choosing the starting player for the new age by who is
// behind on military (ties keep the current player).
func (gs *GameState) nextAge() NextAgeResult {
	g := &gs.Graphs[gs.CurrentAge]
	if g.NumPlayableCards != 0 {
		return NextAgeNone
	}
	switch gs.CurrentAge {
	case 0:
		gs.initAge2(gs.IsDeterministic)
	case 1:
		gs.initAge3(gs.IsDeterministic)
	default:
		return NextAgeEndGame
	}
	if gs.Military < 0 {
		gs.PlayerTurn = 0
	} else if gs.Military > 0 {
		gs.PlayerTurn = 1
	}
	return NextAgeAdvanced
}
