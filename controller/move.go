// Package controller is the thin state-machine facade around engine.GameState:
// it enumerates legal moves, applies them, and detects terminal states.
package controller

import (
	"fmt"

	"github.com/sevenwd/sevenwd/catalog"
)

// assert panics with a formatted message when cond is false. It marks
// programmer errors (an out-of-range index, an impossible Action value)
// the way the original's DEBUG_ASSERT does, as distinct from I/O failures,
// which are returned as errors instead.
func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// Action tags which kind of move a Move value represents.
type Action uint8

const (
	ActionPick Action = iota
	ActionBurn
	ActionBuildWonder
	ActionScienceToken
	ActionDraftWonder
	NumActions
)

// Move is a small fixed-payload sum type; the zero-valued fields WonderIndex
// and AdditionalID use catalog.InvalidID as "absent".
type Move struct {
	PlayableCard uint8
	Action       Action
	WonderIndex  uint8
	AdditionalID uint8
}

// NewMove builds a Move with WonderIndex/AdditionalID defaulted to absent.
func NewMove(playableCard uint8, action Action) Move {
	return Move{PlayableCard: playableCard, Action: action, WonderIndex: catalog.InvalidID, AdditionalID: catalog.InvalidID}
}

// MaxNumMoves bounds the dense move-index space used by the PUCT policy
// head (§4.5/§4.7).
const MaxNumMoves = 36

// FixedIndex computes the move's stable dense index in [0, 36), used by the
// policy head. ScienceToken/DraftWonder/Pick share slots 0-5 (they never
// co-occur in the same state), Burn takes 6-11, BuildWonder takes
// 12-35 (6 playable slots x 6 wonder slots... collapsed to the 4 a player
// can ever hold). Mirrors Move::compteMoveFixedIndex.
func (m Move) FixedIndex() int {
	switch m.Action {
	case ActionScienceToken, ActionPick, ActionDraftWonder:
		return int(m.PlayableCard)
	case ActionBurn:
		return 6 + int(m.PlayableCard)
	case ActionBuildWonder:
		return 12 + int(m.WonderIndex)*6 + int(m.PlayableCard)
	}
	return -1
}

// WinType classifies why a game ended.
type WinType uint8

const (
	WinNone WinType = iota
	WinCivil
	WinMilitary
	WinScience
)
