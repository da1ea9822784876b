// Package engine implements the mutable 7 Wonders Duel game snapshot: the
// card graph DAG, the two player cities, and the whole-state transitions
// (cost, side effects, victory points, age progression, determinization).
// GameState is designed to be cheaply value-copyable: every field is an
// inline array or scalar, never a slice or pointer into shared storage, so
// that cloning a state for an MCTS expansion is a plain struct copy.
package engine

import "github.com/sevenwd/sevenwd/catalog"

// InvalidNode marks an absent graph-node reference (5-bit sentinel, mirrors
// the original packed format's 0x1F).
const InvalidNode uint8 = 0x1F

// InvalidCardID marks a face-down or absent card slot.
const InvalidCardID uint16 = 0x3FF

// CardNode is one slot of a CardGraph. Parent/child references are node
// indices within the owning graph's Nodes array (InvalidNode if absent).
type CardNode struct {
	Parent0, Parent1 uint8
	Child0, Child1   uint8
	CardID           uint16
	Visible          bool
	IsGuildCard      bool
}

func newNode(guild bool) CardNode {
	return CardNode{
		Parent0: InvalidNode, Parent1: InvalidNode,
		Child0: InvalidNode, Child1: InvalidNode,
		CardID: InvalidCardID, IsGuildCard: guild,
	}
}

// HasNoChildren reports whether a node is playable (no remaining children).
func (n *CardNode) HasNoChildren() bool {
	return n.Child0 == InvalidNode && n.Child1 == InvalidNode
}

// NumGraphNodes is the fixed node capacity of a single age's card graph.
const NumGraphNodes = 20

// CardGraph is the age's DAG of up to 20 nodes plus the bookkeeping used to
// resolve face-down nodes as they are revealed.
type CardGraph struct {
	Nodes [NumGraphNodes]CardNode

	PlayableCards    [6]uint8
	NumPlayableCards uint8

	AvailableAgeCards    [23]uint8
	NumAvailableAgeCards uint8

	AvailableGuildCards    [7]uint8
	NumAvailableGuildCards uint8

	Age uint8 // 0, 1, or 2
}

// DiscardedCards tracks every burned/destroyed card for Mausoleum revival,
// plus the original's best-of-kind summary used only as a tensorizer
// heuristic (see DESIGN.md decision #4).
type DiscardedCards struct {
	// AllIDs is the ground truth revive pool: every discarded card id, in
	// discard order. Capacity bounds the worst case (burns across 3 ages
	// plus destroyed production cards never exceeds ~40 in a real game).
	AllIDs    [40]uint8
	NumAllIDs uint8

	BestProductionCardID [catalog.NumResourceTypes]uint8
	BestBlueCardID        uint8
	BestMilitaryCardID     uint8
	ScienceCardIDs         [catalog.NumScienceSymbols]uint8

	GuildCardIDs    [7]uint8
	NumGuildCardIDs uint8

	BestYellowGoldRewardCardID uint8
	BestYellowWeakNormalCardID uint8
	BestYellowWeakRareCardID   uint8

	DiscountCardIDs    [5]uint8
	NumDiscountCardIDs uint8

	GoldPerCardTypeCardIDs    [5]uint8
	NumGoldPerCardTypeCardIDs uint8
}

func newDiscardedCards() DiscardedCards {
	d := DiscardedCards{}
	for i := range d.BestProductionCardID {
		d.BestProductionCardID[i] = catalog.InvalidID
	}
	d.BestBlueCardID = catalog.InvalidID
	d.BestMilitaryCardID = catalog.InvalidID
	for i := range d.ScienceCardIDs {
		d.ScienceCardIDs[i] = catalog.InvalidID
	}
	for i := range d.GuildCardIDs {
		d.GuildCardIDs[i] = catalog.InvalidID
	}
	d.BestYellowGoldRewardCardID = catalog.InvalidID
	d.BestYellowWeakNormalCardID = catalog.InvalidID
	d.BestYellowWeakRareCardID = catalog.InvalidID
	for i := range d.DiscountCardIDs {
		d.DiscountCardIDs[i] = catalog.InvalidID
	}
	for i := range d.GoldPerCardTypeCardIDs {
		d.GoldPerCardTypeCardIDs[i] = catalog.InvalidID
	}
	return d
}

// HasRevivableCards reports whether any card is eligible for Mausoleum.
func (d *DiscardedCards) HasRevivableCards() bool { return d.NumAllIDs > 0 }

// PlayerCity is one player's mutable aggregate of everything owned.
type PlayerCity struct {
	Gold          uint8
	VictoryPoints uint8

	ChainingSymbols uint32 // bitset over catalog.ChainingSymbol

	OwnedScienceTokens uint16 // bitset over catalog.ScienceToken
	OwnedGuildCards    uint8  // bitset, index = guild's local index in catalog.AllGuildCards

	OwnedScienceSymbol [catalog.NumScienceSymbols]uint8
	NumScienceSymbols  uint8

	NumCardPerType [catalog.NumCardTypes]uint8

	Production      [catalog.NumResourceTypes]uint8
	WeakProduction  [2]uint8 // [0]=normal (Wood/Clay/Stone), [1]=rare (Glass/Papyrus)
	ResourceDiscount [catalog.NumResourceTypes]bool

	BestProductionCardID [catalog.NumResourceTypes]uint8

	UnbuildWonders    [4]catalog.Wonders
	UnbuildWonderCount uint8
}

func newPlayerCity() PlayerCity {
	p := PlayerCity{}
	for i := range p.BestProductionCardID {
		p.BestProductionCardID[i] = catalog.InvalidID
	}
	return p
}

// HasChain reports whether the city owns the given chain-out symbol.
func (p *PlayerCity) HasChain(s catalog.ChainingSymbol) bool {
	return p.ChainingSymbols&(1<<uint(s)) != 0
}

func (p *PlayerCity) addChain(s catalog.ChainingSymbol) {
	if s != catalog.NoChain {
		p.ChainingSymbols |= 1 << uint(s)
	}
}

// HasToken reports whether the city owns the given science token.
func (p *PlayerCity) HasToken(t catalog.ScienceToken) bool {
	return p.OwnedScienceTokens&(1<<uint(t)) != 0
}

func (p *PlayerCity) addToken(t catalog.ScienceToken) {
	p.OwnedScienceTokens |= 1 << uint(t)
}

// HasGuild reports whether the city owns the guild at the given local index
// into catalog.AllGuildCards.
func (p *PlayerCity) HasGuild(localIdx uint8) bool {
	return p.OwnedGuildCards&(1<<localIdx) != 0
}

// GameState is the full mutable game snapshot.
type GameState struct {
	Catalog *catalog.Catalog

	State State

	CurrentAge     uint8 // 0, 1, 2 while playing; meaningless during draft
	PlayerTurn     uint8
	NumTurnPlayed  uint32

	Military       int8
	MilitaryToken2 [2]bool
	MilitaryToken5 [2]bool

	// ScienceTokens is the full 10-entry pool; the first NumScienceToken
	// entries (5 at game start) are the drafted "board" tokens, the rest
	// are reserved for the Great Library and are pre-shuffled at
	// determinization time (see DESIGN.md decision #5).
	ScienceTokens    [catalog.NumScienceTokens]catalog.ScienceToken
	NumScienceToken  uint8
	GreatLibraryDrawn [catalog.NumScienceTokens - catalog.NumBoardTokens]bool

	NumPlayedAgeCards uint8
	PlayedAgeCardIDs  [60]uint8

	Discarded DiscardedCards

	WonderDraftPool    [catalog.NumWonders]catalog.Wonders
	NumWonderDraftPool uint8
	CurrentDraftRound  uint8
	PicksInRound       uint8

	Cities [2]PlayerCity

	Graphs      [3]CardGraph
	ActiveGraph CardGraph

	IsDeterministic bool
}

// State is the finite state of the game controller's state machine.
type State uint8

const (
	StateDraftWonder State = iota
	StatePlay
	StatePickScienceToken
	StateGreatLibraryToken
	StateGreatLibraryTokenThenReplay
	StateWinPlayer0
	StateWinPlayer1
)

// OtherPlayer returns the index of the non-current player.
func OtherPlayer(player uint8) uint8 { return 1 - player }

// NewGameState creates a fresh state ready for wonder draft.
func NewGameState(cat *catalog.Catalog) *GameState {
	gs := &GameState{
		Catalog: cat,
		Cities:  [2]PlayerCity{newPlayerCity(), newPlayerCity()},
		Discarded: newDiscardedCards(),
	}
	gs.initWonderDraft()
	return gs
}
