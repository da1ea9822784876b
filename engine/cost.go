package engine

import (
	"sort"

	"github.com/sevenwd/sevenwd/catalog"
)

// computeCost resolves the gold cost a city must pay to acquire card,
// given the opponent's production (market inflation) and the city's own
// production, discounts, weak-production jokers and Masonry/Architecture
// tokens. Mirrors PlayerCity::computeCost.
func computeCost(card *catalog.Card, city, other *PlayerCity) uint8 {
	if card.ChainIn() != catalog.NoChain && city.HasChain(card.ChainIn()) {
		return 0
	}

	var remaining [catalog.NumResourceTypes]uint8
	empty := true
	for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
		need := card.Cost(r)
		if need == 0 {
			continue
		}
		have := city.Production[r]
		if need > have {
			remaining[r] = need - have
			empty = false
		}
	}
	if empty {
		return card.GoldCost()
	}

	perResourceGold := [catalog.NumResourceTypes]uint8{}
	for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
		base := uint8(2) + other.Production[r]
		if city.ResourceDiscount[r] {
			base = 1
		}
		perResourceGold[r] = base
	}

	freeResources := 0
	if (card.Type() == catalog.Blue && city.HasToken(catalog.Masonry)) ||
		(card.Type() == catalog.Wonder && city.HasToken(catalog.Architecture)) {
		freeResources = 2
	}
	for freeResources > 0 {
		worst := -1
		var worstCost uint8
		for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
			if remaining[r] > 0 && (worst == -1 || perResourceGold[r] > worstCost) {
				worst = int(r)
				worstCost = perResourceGold[r]
			}
		}
		if worst == -1 {
			break
		}
		remaining[worst]--
		freeResources--
	}

	weakNormal := city.WeakProduction[0]
	spendWeakOnPriciest(remaining[:], perResourceGold[:], &weakNormal, catalog.Wood, catalog.Clay, catalog.Stone)
	weakRare := city.WeakProduction[1]
	spendWeakOnPriciest(remaining[:], perResourceGold[:], &weakRare, catalog.Glass, catalog.Papyrus)

	total := card.GoldCost()
	resources := []catalog.ResourceType{catalog.Wood, catalog.Clay, catalog.Stone, catalog.Glass, catalog.Papyrus}
	sort.SliceStable(resources, func(i, j int) bool {
		return perResourceGold[resources[i]] > perResourceGold[resources[j]]
	})
	for _, r := range resources {
		total += remaining[r] * perResourceGold[r]
	}
	return total
}

// spendWeakOnPriciest spends a wildcard weak-production pool (*weak units,
// each substitutable for any resource in pool) against whichever resource in
// pool currently remains unmet and costs the most gold, one unit at a time,
// so a wildcard always offsets the priciest unmet need first. Mirrors
// PlayerCity::computeCost's descending-sort-then-spend ordering.
func spendWeakOnPriciest(remaining []uint8, perResourceGold []uint8, weak *uint8, pool ...catalog.ResourceType) {
	for *weak > 0 {
		worst := -1
		var worstCost uint8
		for _, r := range pool {
			if remaining[r] > 0 && (worst == -1 || perResourceGold[r] > worstCost) {
				worst = int(r)
				worstCost = perResourceGold[r]
			}
		}
		if worst == -1 {
			break
		}
		remaining[worst]--
		*weak--
	}
}
