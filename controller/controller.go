package controller

import (
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/engine"
)

// Controller is a thin facade around engine.GameState: it owns the state,
// exposes the state machine, and implements move enumeration/application.
// Mirrors GameController.
type Controller struct {
	State   *engine.GameState
	WinType WinType
	History []Move
}

// New wraps a fresh GameState ready for wonder draft.
func New(cat *catalog.Catalog) *Controller {
	return &Controller{State: engine.NewGameState(cat)}
}

// Clone returns a deep value copy suitable for MCTS expansion — GameState
// has no heap indirection beyond its own inline arrays, so a plain struct
// copy is the entire clone.
func (c *Controller) Clone() *Controller {
	gs := *c.State
	return &Controller{State: &gs, WinType: c.WinType, History: c.History}
}

// EnumerateMoves returns every legal move in the current state. Mirrors
// GameController::enumerateMoves.
func (c *Controller) EnumerateMoves() []Move {
	gs := c.State
	switch gs.State {
	case engine.StateDraftWonder:
		n := gs.NumDraftableWonders()
		moves := make([]Move, n)
		for i := uint8(0); i < n; i++ {
			moves[i] = NewMove(i, ActionDraftWonder)
		}
		return moves

	case engine.StatePlay:
		return c.enumeratePlayMoves()

	case engine.StatePickScienceToken:
		moves := make([]Move, gs.NumScienceToken)
		for i := uint8(0); i < gs.NumScienceToken; i++ {
			moves[i] = NewMove(i, ActionScienceToken)
		}
		return moves

	case engine.StateGreatLibraryToken, engine.StateGreatLibraryTokenThenReplay:
		draft := gs.GreatLibraryDraft()
		moves := make([]Move, len(draft))
		for i := range draft {
			moves[i] = NewMove(uint8(i), ActionScienceToken)
		}
		return moves

	default:
		return nil
	}
}

func (c *Controller) enumeratePlayMoves() []Move {
	gs := c.State
	g := &gs.ActiveGraph
	city := &gs.Cities[gs.PlayerTurn]

	totalUnbuilt := gs.TotalUnbuiltWonders()
	builtSoFar := 8 - totalUnbuilt
	canBuildWonder := builtSoFar < 7

	var moves []Move
	for i := uint8(0); i < g.NumPlayableCards; i++ {
		node := g.PlayableCards[i]
		card := gs.Catalog.GetCard(uint8(g.Nodes[node].CardID))

		if gs.ComputeCost(card) <= city.Gold {
			moves = append(moves, NewMove(i, ActionPick))
		}
		moves = append(moves, NewMove(i, ActionBurn))

		if canBuildWonder {
			for w := uint8(0); w < city.UnbuildWonderCount; w++ {
				wonder := city.UnbuildWonders[w]
				if gs.ComputeWonderCost(wonder) > city.Gold {
					continue
				}
				moves = append(moves, c.expandWonderMoves(i, w, wonder)...)
			}
		}
	}
	return moves
}

// expandWonderMoves handles the per-wonder "choose a target" expansion:
// Zeus/Circus-Maximus destroy a qualifying opponent production card,
// Mausoleum revives a discarded card, everything else is a single move.
func (c *Controller) expandWonderMoves(playableIdx, wonderSlot uint8, wonder catalog.Wonders) []Move {
	gs := c.State
	other := &gs.Cities[engine.OtherPlayer(gs.PlayerTurn)]

	var first, last catalog.ResourceType
	switch wonder {
	case catalog.Zeus:
		first, last = catalog.FirstBrown, catalog.LastBrown
	case catalog.CircusMaximus:
		first, last = catalog.FirstGrey, catalog.LastGrey
	case catalog.Mausoleum:
		if !gs.Discarded.HasRevivableCards() {
			return []Move{{PlayableCard: playableIdx, Action: ActionBuildWonder, WonderIndex: wonderSlot, AdditionalID: catalog.InvalidID}}
		}
		moves := make([]Move, 0, gs.Discarded.NumAllIDs)
		for i := uint8(0); i < gs.Discarded.NumAllIDs; i++ {
			moves = append(moves, Move{PlayableCard: playableIdx, Action: ActionBuildWonder, WonderIndex: wonderSlot, AdditionalID: gs.Discarded.AllIDs[i]})
		}
		return moves
	default:
		return []Move{{PlayableCard: playableIdx, Action: ActionBuildWonder, WonderIndex: wonderSlot, AdditionalID: catalog.InvalidID}}
	}

	var moves []Move
	for r := first; r <= last; r++ {
		id := other.BestProductionCardID[r]
		if id != catalog.InvalidID {
			moves = append(moves, Move{PlayableCard: playableIdx, Action: ActionBuildWonder, WonderIndex: wonderSlot, AdditionalID: id})
		}
	}
	if len(moves) == 0 {
		moves = append(moves, Move{PlayableCard: playableIdx, Action: ActionBuildWonder, WonderIndex: wonderSlot, AdditionalID: catalog.InvalidID})
	}
	return moves
}

// Play applies move, returning true iff the resulting state is terminal.
// Mirrors GameController::play.
func (c *Controller) Play(move Move) bool {
	gs := c.State

	switch gs.State {
	case engine.StateDraftWonder:
		gs.DraftWonder(move.PlayableCard)
		if gs.CurrentDraftRound == 2 && gs.PicksInRound == 0 {
			gs.State = engine.StatePlay
		}
		return false

	case engine.StatePlay:
		return c.playInPlayState(move)

	case engine.StatePickScienceToken:
		action := gs.PickScienceToken(move.PlayableCard, false)
		gs.State = engine.StatePlay
		return c.resolveAction(action, false)

	case engine.StateGreatLibraryToken, engine.StateGreatLibraryTokenThenReplay:
		wasReplay := gs.State == engine.StateGreatLibraryTokenThenReplay
		action := gs.PickScienceToken(move.PlayableCard, true)
		gs.State = engine.StatePlay
		return c.resolveAction(action, wasReplay)

	default:
		return true
	}
}

func (c *Controller) playInPlayState(move Move) bool {
	gs := c.State
	var action catalog.SpecialAction

	switch move.Action {
	case ActionPick:
		action = gs.Pick(move.PlayableCard)
	case ActionBurn:
		gs.Burn(move.PlayableCard)
		action = catalog.Nothing
	case ActionBuildWonder:
		builtWonder := gs.Cities[gs.PlayerTurn].UnbuildWonders[move.WonderIndex]
		action = gs.BuildWonder(move.PlayableCard, move.WonderIndex, move.AdditionalID)
		if builtWonder == catalog.GreatLibrary && action != catalog.MilitaryWin {
			if action == catalog.Replay {
				gs.State = engine.StateGreatLibraryTokenThenReplay
			} else {
				gs.State = engine.StateGreatLibraryToken
			}
			return false
		}
	case ActionScienceToken:
		action = gs.PickScienceToken(move.PlayableCard, false)
	}

	return c.resolveAction(action, action == catalog.Replay)
}

func (c *Controller) resolveAction(action catalog.SpecialAction, replay bool) bool {
	gs := c.State

	switch action {
	case catalog.MilitaryWin:
		c.WinType = WinMilitary
		return true
	case catalog.ScienceWin:
		if gs.PlayerTurn == 0 {
			gs.State = engine.StateWinPlayer0
		} else {
			gs.State = engine.StateWinPlayer1
		}
		c.WinType = WinScience
		return true
	case catalog.TakeScienceToken:
		gs.State = engine.StatePickScienceToken
		return false
	}

	return c.advanceAfterMove(replay)
}

func (c *Controller) advanceAfterMove(replay bool) bool {
	gs := c.State
	if gs.ActiveGraph.NumPlayableCards == 0 {
		switch gs.NextAge() {
		case engine.NextAgeEndGame:
			winner := gs.FindWinner()
			if winner == 0 {
				gs.State = engine.StateWinPlayer0
			} else {
				gs.State = engine.StateWinPlayer1
			}
			c.WinType = WinCivil
			return true
		case engine.NextAgeAdvanced:
			return false
		}
	}
	if !replay {
		gs.PlayerTurn = engine.OtherPlayer(gs.PlayerTurn)
	}
	return false
}
