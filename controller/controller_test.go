package controller_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/engine"
)

func TestFreshGameOffersOnlyTheFirstQuartet(t *testing.T) {
	cat := catalog.New(1)
	c := controller.New(cat)

	moves := c.EnumerateMoves()
	require.Len(t, moves, 4)
	for _, m := range moves {
		require.Equal(t, controller.ActionDraftWonder, m.Action)
		require.True(t, c.Check(m))
	}
}

// playRandomGame drives a fresh game to completion with a seeded uniform
// random policy, checking structural invariants after every move.
func playRandomGame(t *testing.T, seed int64) *controller.Controller {
	t.Helper()
	cat := catalog.New(seed)
	c := controller.New(cat)
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < 2000; i++ {
		if ended, winner := c.Ended(); ended {
			require.True(t, winner == 0 || winner == 1)
			return c
		}
		legal := c.EnumerateMoves()
		require.NotEmpty(t, legal, "non-terminal state must offer a move")

		seen := map[int]bool{}
		for _, m := range legal {
			require.True(t, c.Check(m))
			idx := m.FixedIndex()
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, controller.MaxNumMoves)
			// Distinct legal moves should not collide on FixedIndex within
			// the same enumeration (property 7), except BuildWonder slots
			// which intentionally share an index across wonder targets.
			if m.Action != controller.ActionBuildWonder {
				require.False(t, seen[idx], "duplicate FixedIndex %d for action %v", idx, m.Action)
				seen[idx] = true
			}
		}

		move := legal[rng.Intn(len(legal))]
		c = c.Apply(move)

		if c.State.State == engine.StatePlay {
			requirePlayableCardsConsistent(t, c)
		}
	}
	t.Fatal("game did not terminate within move budget")
	return nil
}

// requirePlayableCardsConsistent checks property 3: playableCards exactly
// equals the set of visible nodes with no remaining children.
func requirePlayableCardsConsistent(t *testing.T, c *controller.Controller) {
	t.Helper()
	g := &c.State.ActiveGraph

	var want []uint8
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Visible && n.HasNoChildren() {
			want = append(want, uint8(i))
		}
	}

	got := make([]uint8, g.NumPlayableCards)
	copy(got, g.PlayableCards[:g.NumPlayableCards])

	require.ElementsMatch(t, want, got)
}

func TestRandomGamesTerminateWithConsistentGraph(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		playRandomGame(t, seed)
	}
}

func TestMoveFixedIndexAlwaysInRange(t *testing.T) {
	cat := catalog.New(42)
	c := controller.New(cat)
	for i := 0; i < 50; i++ {
		legal := c.EnumerateMoves()
		if len(legal) == 0 {
			break
		}
		for _, m := range legal {
			idx := m.FixedIndex()
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, controller.MaxNumMoves)
		}
		c = c.Apply(legal[0])
		if ended, _ := c.Ended(); ended {
			break
		}
	}
}
