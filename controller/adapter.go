package controller

import (
	"crypto/md5"

	"github.com/sevenwd/sevenwd/engine"
)

// NoWinner marks Ended's winner return when a game has not yet finished.
const NoWinner uint8 = 0xFF

// ActionSpace is the size of the dense move-index space the policy head
// predicts over (see Move.FixedIndex).
func (c *Controller) ActionSpace() int { return MaxNumMoves }

// Hash returns a content hash of the current state, used by the search tree
// to detect repeated positions and as a cache key for inference results.
func (c *Controller) Hash() [16]byte {
	return md5.Sum(c.State.Serialize())
}

// Turn returns the player to move next.
func (c *Controller) Turn() uint8 { return c.State.PlayerTurn }

// MoveNumber is the number of moves played so far this game.
func (c *Controller) MoveNumber() int { return len(c.History) }

// LastMove returns the most recently applied move, or the zero Move if none
// has been played yet.
func (c *Controller) LastMove() Move {
	if len(c.History) == 0 {
		return Move{}
	}
	return c.History[len(c.History)-1]
}

// Ended reports whether the game has finished and, if so, who won.
func (c *Controller) Ended() (ended bool, winner uint8) {
	switch c.State.State {
	case engine.StateWinPlayer0:
		return true, 0
	case engine.StateWinPlayer1:
		return true, 1
	}
	return false, NoWinner
}

// Score is the terminal reward for player from the current (terminal) state.
func (c *Controller) Score(player uint8) float32 {
	if ended, winner := c.Ended(); ended {
		if winner == player {
			return 1
		}
		return -1
	}
	return 0
}

// Check reports whether m is a legal move in the current state.
func (c *Controller) Check(m Move) bool {
	for _, legal := range c.EnumerateMoves() {
		if legal == m {
			return true
		}
	}
	return false
}

// NNToMove resolves idx (a dense policy-head index) back into a concrete
// legal Move in the current state. Because FixedIndex collapses several
// move shapes onto the same slot (e.g. every Zeus target shares one index),
// the first matching legal move is returned.
func (c *Controller) NNToMove(idx int) Move {
	for _, legal := range c.EnumerateMoves() {
		if legal.FixedIndex() == idx {
			return legal
		}
	}
	return Move{}
}

// Apply clones the controller, plays m on the clone, and returns it. The
// clone's move history gains m.
func (c *Controller) Apply(m Move) *Controller {
	assert(m.Action < NumActions, "controller: Apply: invalid Action %d", m.Action)
	assert(m.FixedIndex() >= 0 && m.FixedIndex() < MaxNumMoves, "controller: Apply: move %+v has no FixedIndex slot", m)

	next := c.Clone()
	history := make([]Move, len(c.History), len(c.History)+1)
	copy(history, c.History)
	next.History = append(history, m)
	next.Play(m)
	return next
}

// Reset reinitializes the controller to a fresh wonder draft using the same
// catalog (and its shared RNG stream).
func (c *Controller) Reset() {
	cat := c.State.Catalog
	*c = Controller{State: engine.NewGameState(cat)}
}

// Eq reports whether c and other describe the same game state.
func (c *Controller) Eq(other *Controller) bool {
	return c.Hash() == other.Hash()
}
