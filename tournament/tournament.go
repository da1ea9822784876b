// Package tournament drives round-robin self-play between registered AIs,
// collecting per-age training samples and win/loss statistics, across an
// arbitrary roster of ai.AI implementations rather than a fixed pair.
package tournament

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/sevenwd/sevenwd/ai"
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
)

// samplesPerAge is how many pre-decision states a single game contributes
// per age, matching AI/Tournament.h's NumStatesToSamplePerGame.
const samplesPerAge = 16

// numAges is the number of card ages a game passes through (I, II, III).
const numAges = 3

// Stats tracks one registered AI's results across every game it played.
type Stats struct {
	Games        int
	Wins         int
	WinTypeWins  [4]int // indexed by controller.WinType
	DecisionTime time.Duration
}

// WinRate is Wins/Games, or 0 if the AI has not played yet.
func (s Stats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

type registrant struct {
	ai    ai.AI
	stats Stats
}

// Tournament is a registry of AI players plus an accumulated dataset of
// sampled GameStates, labeled with their eventual outcome.
type Tournament struct {
	cat *catalog.Catalog

	mu      sync.Mutex
	roster  []*registrant
	samples []Sample
}

// New builds an empty tournament over cat. Register AIs with Register
// before calling GenerateDataset.
func New(cat *catalog.Catalog) *Tournament {
	return &Tournament{cat: cat}
}

// Register adds a to the roster.
func (t *Tournament) Register(a ai.AI) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.roster = append(t.roster, &registrant{ai: a})
}

// Stats returns a snapshot of a's accumulated record, or the zero Stats if
// a is not registered.
func (t *Tournament) Stats(a ai.AI) Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.roster {
		if r.ai == a {
			return r.stats
		}
	}
	return Stats{}
}

// Samples returns everything sampled so far across every GenerateDataset
// call (not cleared until resetTournament trims it).
func (t *Tournament) Samples() []Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// GenerateDataset plays count games in parallel across threads worker
// goroutines (runtime.NumCPU() if threads <= 0). Matchmaking cycles through
// every ordered pair of distinct roster entries. It returns the samples
// produced by these games (also appended to the tournament's running
// dataset) and every per-game error encountered, combined into one
// multierror (nil if none).
func (t *Tournament) GenerateDataset(ctx context.Context, count, threads int) ([]Sample, error) {
	t.mu.Lock()
	pairs := orderedPairs(len(t.roster))
	t.mu.Unlock()
	if len(pairs) == 0 {
		return nil, errors.New("tournament: need at least two registered AIs")
	}

	jobs := make(chan [2]int, count)
	go func() {
		for g := 0; g < count; g++ {
			jobs <- pairs[g%len(pairs)]
		}
		close(jobs)
	}()

	return t.runWorkers(ctx, threads, jobs)
}

// GenerateDatasetFromAI matches target against every other roster entry,
// cycling through opponents round-robin, until at least targetSize samples
// have been collected.
func (t *Tournament) GenerateDatasetFromAI(ctx context.Context, target ai.AI, targetSize, threads int) ([]Sample, error) {
	t.mu.Lock()
	idx := -1
	for i, r := range t.roster {
		if r.ai == target {
			idx = i
			break
		}
	}
	n := len(t.roster)
	t.mu.Unlock()
	if idx < 0 {
		return nil, errors.New("tournament: target AI is not registered")
	}
	if n < 2 {
		return nil, errors.New("tournament: need at least two registered AIs")
	}

	var all []Sample
	opponent := 0
	for len(all) < targetSize {
		if opponent == idx {
			opponent = (opponent + 1) % n
			continue
		}
		pair := [2]int{idx, opponent}
		if opponent < idx {
			pair = [2]int{opponent, idx}
		}
		jobs := make(chan [2]int, 1)
		jobs <- pair
		close(jobs)
		batch, err := t.runWorkers(ctx, threads, jobs)
		if err != nil {
			return all, err
		}
		all = append(all, batch...)
		opponent = (opponent + 1) % n
	}
	return all, nil
}

func (t *Tournament) runWorkers(ctx context.Context, threads int, jobs chan [2]int) ([]Sample, error) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var all []Sample
	var errs *multierror.Error

	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for pair := range jobs {
				t.mu.Lock()
				a, b := t.roster[pair[0]], t.roster[pair[1]]
				t.mu.Unlock()

				samples, winner, winType, durA, durB, err := t.playGame(ctx, a.ai, b.ai, rng)
				if err != nil {
					mu.Lock()
					errs = multierror.Append(errs, err)
					mu.Unlock()
					continue
				}

				t.recordResult(a, b, winner, winType, durA, durB)
				mu.Lock()
				all = append(all, samples...)
				mu.Unlock()
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()

	t.mu.Lock()
	t.samples = append(t.samples, all...)
	t.mu.Unlock()

	return all, errs.ErrorOrNil()
}

func (t *Tournament) recordResult(a, b *registrant, winner uint8, winType controller.WinType, durA, durB time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a.stats.Games++
	b.stats.Games++
	a.stats.DecisionTime += durA
	b.stats.DecisionTime += durB
	if winner == 0 {
		a.stats.Wins++
		a.stats.WinTypeWins[winType]++
	} else {
		b.stats.Wins++
		b.stats.WinTypeWins[winType]++
	}
}

// rawSample is a pre-decision state recorded mid-game, before the winner is
// known.
type rawSample struct {
	age    uint8
	blob   []byte
	priors [36]float32
}

func (t *Tournament) playGame(ctx context.Context, a, b ai.AI, rng *rand.Rand) (samples []Sample, winner uint8, winType controller.WinType, durA, durB time.Duration, err error) {
	players := [2]ai.AI{a, b}
	var contexts [2]ai.ThreadContext
	for i, p := range players {
		if tcer, ok := p.(ai.ThreadContexter); ok {
			contexts[i] = tcer.NewThreadContext()
		}
	}
	defer func() {
		for _, tc := range contexts {
			if tc != nil {
				tc.Close()
			}
		}
	}()

	c := controller.New(t.cat)
	var durations [2]time.Duration
	var raw []rawSample

	for {
		if ended, w := c.Ended(); ended {
			winner = w
			break
		}
		legal := c.EnumerateMoves()
		if len(legal) == 0 {
			err = errors.New("tournament: non-terminal state with no legal moves")
			return
		}

		turn := c.State.PlayerTurn
		player := players[turn]
		tc := contexts[turn]

		blob := c.State.Serialize()
		age := c.State.CurrentAge

		start := time.Now()
		var move controller.Move
		if tcAI, ok := player.(ai.ThreadContextAI); ok && tc != nil {
			move, _, err = tcAI.SelectMoveTC(ctx, c, legal, tc)
		} else {
			move, _, err = player.SelectMove(ctx, c, legal)
		}
		durations[turn] += time.Since(start)
		if err != nil {
			return
		}

		var priors [36]float32
		if src, ok := player.(ai.PUCTSource); ok {
			src.FillPUCTPriors(tc, &priors)
		}
		raw = append(raw, rawSample{age: age, blob: blob, priors: priors})

		c = c.Apply(move)

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}
	}

	durA, durB = durations[0], durations[1]
	winType = c.WinType
	samples = sampleByAge(raw, winner, winType, rng)
	return
}

// sampleByAge groups raw by age and keeps up to samplesPerAge entries per
// age, chosen uniformly at random, labeling each with the game's outcome.
func sampleByAge(raw []rawSample, winner uint8, winType controller.WinType, rng *rand.Rand) []Sample {
	byAge := make([][]rawSample, numAges)
	for _, r := range raw {
		age := int(r.age)
		if age >= numAges {
			age = numAges - 1
		}
		byAge[age] = append(byAge[age], r)
	}

	var out []Sample
	for _, group := range byAge {
		if len(group) == 0 {
			continue
		}
		picked := group
		if len(group) > samplesPerAge {
			perm := rng.Perm(len(group))[:samplesPerAge]
			picked = make([]rawSample, samplesPerAge)
			for i, idx := range perm {
				picked[i] = group[idx]
			}
		}
		for _, r := range picked {
			out = append(out, Sample{Winner: winner, WinType: winType, Priors: r.priors, Blob: r.blob})
		}
	}
	return out
}

// orderedPairs returns every (i, j) with i != j for n roster slots, the
// "every ordered AI pair" matchmaking cycle GenerateDataset round-robins
// over.
func orderedPairs(n int) [][2]int {
	var pairs [][2]int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// removeWorstAI prunes the roster down to targetSize by repeatedly dropping
// the lowest win-rate entry, matching AI/Tournament.h's league pruning
// (AIs that have not played yet, and so have an undefined win rate, are
// never dropped ahead of one that has actually lost games).
func (t *Tournament) removeWorstAI(targetSize int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.roster) > targetSize {
		worst := 0
		worstRate, worstGames := t.roster[0].stats.WinRate(), t.roster[0].stats.Games
		for i, r := range t.roster[1:] {
			rate, games := r.stats.WinRate(), r.stats.Games
			if games > 0 && (worstGames == 0 || rate < worstRate) {
				worst, worstRate, worstGames = i+1, rate, games
			}
		}
		t.roster = append(t.roster[:worst], t.roster[worst+1:]...)
	}
}

// resetTournament trims the accumulated dataset down to a random
// keepFraction of its samples and zeroes every AI's accumulated stats,
// matching AI/Tournament.h's periodic reset between training generations.
func (t *Tournament) resetTournament(keepFraction float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	keep := int(float64(len(t.samples)) * keepFraction)
	if keep < len(t.samples) {
		perm := rand.Perm(len(t.samples))[:keep]
		sort.Ints(perm)
		trimmed := make([]Sample, keep)
		for i, idx := range perm {
			trimmed[i] = t.samples[idx]
		}
		t.samples = trimmed
	}
	for _, r := range t.roster {
		r.stats = Stats{}
	}
}
