package ai

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
)

// RandAI picks uniformly among the legal moves. It is the simplest possible
// opponent and doubles as the rollout policy other AIs fall back on.
type RandAI struct {
	rand *rand.Rand
}

func NewRandAI(seed int64) *RandAI {
	return &RandAI{rand: rand.New(rand.NewSource(seed))}
}

func (a *RandAI) Name() string { return "RandAI" }

func (a *RandAI) SelectMove(ctx context.Context, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error) {
	if len(legal) == 0 {
		return controller.Move{}, 0, fmt.Errorf("ai: no legal moves")
	}
	return legal[a.rand.Intn(len(legal))], 0, nil
}

// NoBurnAI avoids discarding a card whenever at least one other legal move
// exists, and otherwise falls back to uniform choice among the burns.
type NoBurnAI struct {
	rand *rand.Rand
}

func NewNoBurnAI(seed int64) *NoBurnAI {
	return &NoBurnAI{rand: rand.New(rand.NewSource(seed))}
}

func (a *NoBurnAI) Name() string { return "NoBurnAI" }

func (a *NoBurnAI) SelectMove(ctx context.Context, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error) {
	if len(legal) == 0 {
		return controller.Move{}, 0, fmt.Errorf("ai: no legal moves")
	}
	var nonBurn []controller.Move
	for _, m := range legal {
		if m.Action != controller.ActionBurn {
			nonBurn = append(nonBurn, m)
		}
	}
	if len(nonBurn) == 0 {
		return legal[a.rand.Intn(len(legal))], 0, nil
	}
	return nonBurn[a.rand.Intn(len(nonBurn))], 0, nil
}

// priorityTable mirrors AI/AI.h's three per-age CardType weight rows; row 0
// is age I, row 2 is age III. Index with catalog.CardType.
type priorityTable [3][catalog.NumCardTypes]float32

func newPriorityTable(focusMilitary, focusScience bool) priorityTable {
	var t priorityTable
	t[0][catalog.Grey] = 1.0
	t[0][catalog.Brown] = 0.9
	t[0][catalog.Yellow] = 0.8
	t[0][catalog.Blue] = 0.6
	t[0][catalog.Military] = 0.1

	t[1][catalog.Yellow] = 0.95
	t[1][catalog.Blue] = 0.93
	t[1][catalog.Grey] = 0.9
	t[1][catalog.Brown] = 0.8
	t[1][catalog.Wonder] = 0.1

	t[2][catalog.Blue] = 0.95
	t[2][catalog.Guild] = 0.9
	t[2][catalog.Wonder] = 0.8

	if focusScience {
		for age := range t {
			t[age][catalog.Science] = 1.0
		}
	}
	if focusMilitary {
		t[1][catalog.Military] = 1.0
		t[2][catalog.Military] = 1.0
	}
	return t
}

// PriorityAI scores each legal move with a hand-tuned, age-dependent weight
// on the card type it picks or builds, and always takes the best-scoring
// one. It never burns or drafts a wonder preferentially over picking one.
type PriorityAI struct {
	focusMilitary, focusScience bool
	table                       priorityTable
}

func NewPriorityAI(focusMilitary, focusScience bool) *PriorityAI {
	return &PriorityAI{
		focusMilitary: focusMilitary,
		focusScience:  focusScience,
		table:         newPriorityTable(focusMilitary, focusScience),
	}
}

func (a *PriorityAI) Name() string {
	switch {
	case a.focusMilitary:
		return "PriorityMilitaryAI"
	case a.focusScience:
		return "PriorityScienceAI"
	default:
		return "PriorityAI"
	}
}

func (a *PriorityAI) score(c *controller.Controller, m controller.Move) float32 {
	age := c.State.CurrentAge
	if age > 2 {
		age = 2
	}
	switch m.Action {
	case controller.ActionPick:
		card := c.State.Catalog.GetCard(c.State.ActiveGraph.PlayableCards[m.PlayableCard])
		return 10 + a.table[age][card.Type()]
	case controller.ActionBuildWonder:
		return 10 + a.table[age][catalog.Wonder]
	default:
		return 0
	}
}

func (a *PriorityAI) SelectMove(ctx context.Context, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error) {
	if len(legal) == 0 {
		return controller.Move{}, 0, fmt.Errorf("ai: no legal moves")
	}
	best := legal[0]
	bestScore := a.score(c, best)
	for _, m := range legal[1:] {
		if s := a.score(c, m); s > bestScore {
			bestScore = s
			best = m
		}
	}
	return best, 0, nil
}

// MixAI delegates to Primary with probability Percentage/100 and to
// Secondary otherwise, the way the original blends a trained AI with a
// baseline during evaluation.
type MixAI struct {
	Primary, Secondary AI
	Percentage         int
	rand               *rand.Rand
}

func NewMixAI(primary, secondary AI, percentage int, seed int64) *MixAI {
	return &MixAI{Primary: primary, Secondary: secondary, Percentage: percentage, rand: rand.New(rand.NewSource(seed))}
}

func (a *MixAI) Name() string {
	return fmt.Sprintf("MixAI(%s,%s)", a.Primary.Name(), a.Secondary.Name())
}

func (a *MixAI) SelectMove(ctx context.Context, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error) {
	if a.rand.Intn(100) < a.Percentage {
		return a.Primary.SelectMove(ctx, c, legal)
	}
	return a.Secondary.SelectMove(ctx, c, legal)
}

// MonteCarloAI plays NumSimu uniform-random rollouts per candidate move and
// takes the one with the highest observed win rate from the root player's
// perspective. It needs no neural network and no persistent tree, unlike
// the PUCT-driven MCTSAi.
type MonteCarloAI struct {
	NumSimu int
	rand    *rand.Rand
}

func NewMonteCarloAI(numSimu int, seed int64) *MonteCarloAI {
	return &MonteCarloAI{NumSimu: numSimu, rand: rand.New(rand.NewSource(seed))}
}

func (a *MonteCarloAI) Name() string { return fmt.Sprintf("MonteCarlo_%d", a.NumSimu) }

func (a *MonteCarloAI) SelectMove(ctx context.Context, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error) {
	if len(legal) == 0 {
		return controller.Move{}, 0, fmt.Errorf("ai: no legal moves")
	}
	rootPlayer := c.State.PlayerTurn
	wins := make([]int, len(legal))
	for i, m := range legal {
		for j := 0; j < a.NumSimu; j++ {
			select {
			case <-ctx.Done():
				return legal[i], 0, ctx.Err()
			default:
			}
			game := c.Apply(m)
			for {
				if ended, winner := game.Ended(); ended {
					if winner == rootPlayer {
						wins[i]++
					}
					break
				}
				next := game.EnumerateMoves()
				if len(next) == 0 {
					break
				}
				game = game.Apply(next[a.rand.Intn(len(next))])
			}
		}
	}
	bestIdx, bestWins := 0, -1
	for i, w := range wins {
		if w > bestWins {
			bestWins = w
			bestIdx = i
		}
	}
	return legal[bestIdx], float32(bestWins) / float32(a.NumSimu), nil
}
