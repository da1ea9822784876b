package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/ai"
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
)

func freshGame(seed int64) *controller.Controller {
	cat := catalog.New(seed)
	return controller.New(cat)
}

func TestRandAIAlwaysReturnsALegalMove(t *testing.T) {
	c := freshGame(1)
	a := ai.NewRandAI(1)
	legal := c.EnumerateMoves()
	require.NotEmpty(t, legal)

	for i := 0; i < 20; i++ {
		move, _, err := a.SelectMove(context.Background(), c, legal)
		require.NoError(t, err)
		require.True(t, c.Check(move))
	}
}

func TestRandAIRejectsEmptyLegalList(t *testing.T) {
	c := freshGame(2)
	a := ai.NewRandAI(2)
	_, _, err := a.SelectMove(context.Background(), c, nil)
	require.Error(t, err)
}

// TestNoBurnAIAvoidsBurningWheneverAnAlternativeExists drives a handful of
// seeded games forward and checks that whenever the legal set offers both a
// burn and a non-burn move, NoBurnAI never returns the burn.
func TestNoBurnAIAvoidsBurningWheneverAnAlternativeExists(t *testing.T) {
	a := ai.NewNoBurnAI(3)
	for seed := int64(1); seed <= 5; seed++ {
		c := freshGame(seed)
		for i := 0; i < 100; i++ {
			if ended, _ := c.Ended(); ended {
				break
			}
			legal := c.EnumerateMoves()
			if len(legal) == 0 {
				break
			}
			move, _, err := a.SelectMove(context.Background(), c, legal)
			require.NoError(t, err)
			require.True(t, c.Check(move))

			hasNonBurn := false
			for _, m := range legal {
				if m.Action != controller.ActionBurn {
					hasNonBurn = true
					break
				}
			}
			if hasNonBurn {
				require.NotEqual(t, controller.ActionBurn, move.Action)
			}

			c = c.Apply(move)
		}
	}
}

func TestPriorityAINameReflectsFocus(t *testing.T) {
	require.Equal(t, "PriorityAI", ai.NewPriorityAI(false, false).Name())
	require.Equal(t, "PriorityMilitaryAI", ai.NewPriorityAI(true, false).Name())
	require.Equal(t, "PriorityScienceAI", ai.NewPriorityAI(false, true).Name())
}

func TestPriorityAIAlwaysReturnsALegalMove(t *testing.T) {
	c := freshGame(4)
	a := ai.NewPriorityAI(true, true)
	for i := 0; i < 50; i++ {
		if ended, _ := c.Ended(); ended {
			break
		}
		legal := c.EnumerateMoves()
		if len(legal) == 0 {
			break
		}
		move, _, err := a.SelectMove(context.Background(), c, legal)
		require.NoError(t, err)
		require.True(t, c.Check(move))
		c = c.Apply(move)
	}
}

func TestMixAIDelegatesToEitherSideAndNeverReturnsAnIllegalMove(t *testing.T) {
	c := freshGame(5)
	legal := c.EnumerateMoves()
	require.NotEmpty(t, legal)

	primary := ai.NewRandAI(5)
	secondary := ai.NewRandAI(6)
	mix := ai.NewMixAI(primary, secondary, 50, 7)

	require.Equal(t, "MixAI(RandAI,RandAI)", mix.Name())

	for i := 0; i < 20; i++ {
		move, _, err := mix.SelectMove(context.Background(), c, legal)
		require.NoError(t, err)
		require.True(t, c.Check(move))
	}
}

func TestMonteCarloAIPicksAmongLegalMovesAndReportsAWinRate(t *testing.T) {
	c := freshGame(8)
	legal := c.EnumerateMoves()
	require.NotEmpty(t, legal)

	a := ai.NewMonteCarloAI(4, 9)
	require.Equal(t, "MonteCarlo_4", a.Name())

	move, value, err := a.SelectMove(context.Background(), c, legal)
	require.NoError(t, err)
	require.True(t, c.Check(move))
	require.GreaterOrEqual(t, value, float32(0))
	require.LessOrEqual(t, value, float32(1))
}

func TestMonteCarloAIRejectsEmptyLegalList(t *testing.T) {
	c := freshGame(10)
	a := ai.NewMonteCarloAI(2, 10)
	_, _, err := a.SelectMove(context.Background(), c, nil)
	require.Error(t, err)
}
