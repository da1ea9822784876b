package tournament

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/controller"
)

func TestOrderedPairsCoversEveryDistinctOrderedPair(t *testing.T) {
	pairs := orderedPairs(3)
	require.Len(t, pairs, 6)
	seen := map[[2]int]bool{}
	for _, p := range pairs {
		require.NotEqual(t, p[0], p[1])
		seen[p] = true
	}
	require.Len(t, seen, 6)
}

func TestOrderedPairsWithFewerThanTwoEntriesIsEmpty(t *testing.T) {
	require.Empty(t, orderedPairs(0))
	require.Empty(t, orderedPairs(1))
}

func TestSampleByAgeCapsEachAgeAtSamplesPerAge(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var raw []rawSample
	for age := uint8(0); age < numAges; age++ {
		for i := 0; i < samplesPerAge+5; i++ {
			raw = append(raw, rawSample{age: age, blob: []byte{age, byte(i)}})
		}
	}

	samples := sampleByAge(raw, 0, controller.WinCivil, rng)

	counts := map[controller.WinType]int{}
	byAge := map[uint8]int{}
	for _, s := range samples {
		counts[s.WinType]++
		byAge[s.Blob[0]]++
	}
	require.Len(t, samples, samplesPerAge*numAges)
	for age := uint8(0); age < numAges; age++ {
		require.Equal(t, samplesPerAge, byAge[age])
	}
}

func TestSampleByAgeKeepsEverySampleWhenBelowTheCap(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	raw := []rawSample{
		{age: 0, blob: []byte{0}},
		{age: 1, blob: []byte{1}},
	}
	samples := sampleByAge(raw, 1, controller.WinMilitary, rng)
	require.Len(t, samples, 2)
	for _, s := range samples {
		require.Equal(t, uint8(1), s.Winner)
		require.Equal(t, controller.WinMilitary, s.WinType)
	}
}

func TestRemoveWorstAIPrunesTheLowestWinRateFirst(t *testing.T) {
	tour := &Tournament{}
	tour.roster = []*registrant{
		{stats: Stats{Games: 10, Wins: 8}}, // 0.8
		{stats: Stats{Games: 10, Wins: 1}}, // 0.1
		{stats: Stats{Games: 10, Wins: 5}}, // 0.5
	}

	tour.removeWorstAI(2)
	require.Len(t, tour.roster, 2)
	for _, r := range tour.roster {
		require.NotEqual(t, 0.1, r.stats.WinRate())
	}
}

func TestRemoveWorstAINeverDropsAnAIThatHasNotPlayedYetOverAPriorLoser(t *testing.T) {
	tour := &Tournament{}
	tour.roster = []*registrant{
		{stats: Stats{Games: 0, Wins: 0}},  // hasn't played
		{stats: Stats{Games: 10, Wins: 0}}, // 0.0 win rate, has played
	}
	tour.removeWorstAI(1)
	require.Len(t, tour.roster, 1)
	require.Equal(t, 0, tour.roster[0].stats.Games)
}

func TestResetTournamentZeroesStatsAndTrimsSamples(t *testing.T) {
	tour := &Tournament{}
	tour.roster = []*registrant{
		{stats: Stats{Games: 5, Wins: 2}},
	}
	for i := 0; i < 100; i++ {
		tour.samples = append(tour.samples, Sample{Winner: uint8(i % 2)})
	}

	tour.resetTournament(0.5)
	require.Equal(t, Stats{}, tour.roster[0].stats)
	require.Len(t, tour.samples, 50)
}
