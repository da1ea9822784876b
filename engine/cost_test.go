package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
)

func TestComputeCostSpendsWeakProductionOnThePriciestUnmetResource(t *testing.T) {
	card := catalog.NewBlueCard("Test", 0).WithResourceCost(catalog.Wood, catalog.Clay)

	city := &PlayerCity{WeakProduction: [2]uint8{1, 0}}
	other := &PlayerCity{}
	other.Production[catalog.Clay] = 2

	// Wood costs 2 gold/unit (2+0), Clay costs 4 gold/unit (2+2): the one
	// weak-production unit must offset Clay, the pricier unmet need,
	// leaving only Wood (2 gold) to actually pay for.
	cost := computeCost(card, city, other)
	require.Equal(t, uint8(2), cost)
}

func TestComputeCostWithNoUnmetResourcesIsFree(t *testing.T) {
	card := catalog.NewBlueCard("Test", 0).WithResourceCost(catalog.Wood)
	city := &PlayerCity{}
	city.Production[catalog.Wood] = 1
	other := &PlayerCity{}

	require.Equal(t, uint8(0), computeCost(card, city, other))
}
