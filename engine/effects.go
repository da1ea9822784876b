package engine

import (
	"math/bits"

	"github.com/sevenwd/sevenwd/catalog"
)

// addCard applies the on-acquire side effects of card to myCity (gold
// reward, production, chaining, VP, science/guild/token/wonder specifics)
// and returns the special action it triggers, if any. Mirrors
// PlayerCity::addCard.
func addCard(cat *catalog.Catalog, card *catalog.Card, myCity, otherCity *PlayerCity) catalog.SpecialAction {
	chainSatisfied := card.ChainIn() != catalog.NoChain && myCity.HasChain(card.ChainIn())
	if chainSatisfied && myCity.HasToken(catalog.TownPlanning) {
		myCity.Gold += 4
	}
	myCity.addChain(card.ChainOut())

	switch {
	case card.GoldPerCardColorType():
		myCity.Gold += myCity.NumCardPerType[card.GuildBonusType()] * card.GoldReward()
	case card.Type() == catalog.Guild:
		bonusType := card.GuildBonusType()
		if bonusType < catalog.NumCardTypes {
			mine := myCity.countForGuildBonus(bonusType)
			theirs := otherCity.countForGuildBonus(bonusType)
			best := mine
			if theirs > best {
				best = theirs
			}
			myCity.Gold += best * card.GoldReward()
		}
	default:
		myCity.Gold += card.GoldReward()
	}

	if card.Type() == catalog.Brown || card.Type() == catalog.Grey {
		for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
			if card.Production(r) == 0 {
				continue
			}
			best := myCity.BestProductionCardID[r]
			if best == catalog.InvalidID || card.Production(r) > cat.GetCard(best).Production(r) {
				myCity.BestProductionCardID[r] = card.ID()
			}
		}
	}

	myCity.NumCardPerType[card.Type()]++
	if card.Type() != catalog.Guild {
		myCity.VictoryPoints += card.VictoryPoints()
	}

	switch {
	case card.IsResourceDiscount():
		for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
			if card.Production(r) > 0 {
				myCity.ResourceDiscount[r] = true
			}
		}
	case card.IsWeakProduction():
		for _, r := range []catalog.ResourceType{catalog.Wood, catalog.Clay, catalog.Stone} {
			myCity.WeakProduction[0] += card.Production(r)
		}
		for _, r := range []catalog.ResourceType{catalog.Glass, catalog.Papyrus} {
			myCity.WeakProduction[1] += card.Production(r)
		}
	default:
		for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
			myCity.Production[r] += card.Production(r)
		}
	}

	action := catalog.Nothing

	switch card.Type() {
	case catalog.Science:
		s := card.Science()
		myCity.OwnedScienceSymbol[s]++
		if myCity.OwnedScienceSymbol[s] == 2 {
			action = catalog.TakeScienceToken
		} else {
			myCity.NumScienceSymbols++
		}
	case catalog.Guild:
		myCity.OwnedGuildCards |= 1 << card.AgeID()
	case catalog.ScienceTokenType:
		token := card.Token()
		if token == catalog.Mathematics {
			myCity.VictoryPoints += 3 * uint8(bits.OnesCount16(myCity.OwnedScienceTokens))
		}
		if token == catalog.LawToken {
			myCity.OwnedScienceSymbol[catalog.Law]++
			myCity.NumScienceSymbols++
		}
		myCity.addToken(token)
		if token != catalog.Mathematics && myCity.HasToken(catalog.Mathematics) {
			myCity.VictoryPoints += 3
		}
	case catalog.Wonder:
		if catalog.IsReplayWonder(card.Wonder()) || myCity.HasToken(catalog.Theology) {
			action = catalog.Replay
		}
	}

	if myCity.NumScienceSymbols == 6 {
		action = catalog.ScienceWin
	}
	return action
}

// countForGuildBonus is numCardPerType[t], with the Brown+Grey "shipowners"
// special case (Guilde des Armateurs) folding Grey into Brown's count.
func (p *PlayerCity) countForGuildBonus(t catalog.CardType) uint8 {
	n := p.NumCardPerType[t]
	if t == catalog.Brown {
		n += p.NumCardPerType[catalog.Grey]
	}
	return n
}

// removeCard undoes a Brown/Grey card's production (Zeus/Circus-Maximus
// destruction effects only target production cards with no chain symbols).
func removeCard(card *catalog.Card, city *PlayerCity) {
	for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
		if city.Production[r] >= card.Production(r) {
			city.Production[r] -= card.Production(r)
		} else {
			city.Production[r] = 0
		}
	}
}

// add records a discarded card into both the full revive pool and the
// best-of-kind tensorizer heuristic. Mirrors DiscardedCards::add.
func (d *DiscardedCards) add(cat *catalog.Catalog, card *catalog.Card) {
	if int(d.NumAllIDs) < len(d.AllIDs) {
		d.AllIDs[d.NumAllIDs] = card.ID()
		d.NumAllIDs++
	}

	switch card.Type() {
	case catalog.Brown, catalog.Grey:
		for r := catalog.ResourceType(0); r < catalog.NumResourceTypes; r++ {
			if card.Production(r) == 0 {
				continue
			}
			best := d.BestProductionCardID[r]
			if best == catalog.InvalidID || card.Production(r) > cat.GetCard(best).Production(r) {
				d.BestProductionCardID[r] = card.ID()
			}
		}
	case catalog.Blue:
		if d.BestBlueCardID == catalog.InvalidID || card.VictoryPoints() > cat.GetCard(d.BestBlueCardID).VictoryPoints() {
			d.BestBlueCardID = card.ID()
		}
	case catalog.Military:
		if d.BestMilitaryCardID == catalog.InvalidID || card.Military() > cat.GetCard(d.BestMilitaryCardID).Military() {
			d.BestMilitaryCardID = card.ID()
		}
	case catalog.Science:
		d.ScienceCardIDs[card.Science()] = card.ID()
	case catalog.Guild:
		if int(d.NumGuildCardIDs) < len(d.GuildCardIDs) {
			d.GuildCardIDs[d.NumGuildCardIDs] = card.ID()
			d.NumGuildCardIDs++
		}
	case catalog.Yellow:
		switch {
		case card.GoldReward() > 0 && !card.GoldPerCardColorType():
			d.BestYellowGoldRewardCardID = card.ID()
		case card.IsWeakProduction():
			if card.Production(catalog.Wood) > 0 || card.Production(catalog.Clay) > 0 || card.Production(catalog.Stone) > 0 {
				d.BestYellowWeakNormalCardID = card.ID()
			}
			if card.Production(catalog.Glass) > 0 || card.Production(catalog.Papyrus) > 0 {
				d.BestYellowWeakRareCardID = card.ID()
			}
		case card.IsResourceDiscount():
			if int(d.NumDiscountCardIDs) < len(d.DiscountCardIDs) {
				d.DiscountCardIDs[d.NumDiscountCardIDs] = card.ID()
				d.NumDiscountCardIDs++
			}
		case card.GoldPerCardColorType():
			if int(d.NumGoldPerCardTypeCardIDs) < len(d.GoldPerCardTypeCardIDs) {
				d.GoldPerCardTypeCardIDs[d.NumGoldPerCardTypeCardIDs] = card.ID()
				d.NumGoldPerCardTypeCardIDs++
			}
		}
	}
}

// removeID drops cardID from the full revive pool (swap-remove), used when
// a discarded card is revived by Mausoleum.
func (d *DiscardedCards) removeID(cardID uint8) {
	for i := uint8(0); i < d.NumAllIDs; i++ {
		if d.AllIDs[i] == cardID {
			d.NumAllIDs--
			d.AllIDs[i] = d.AllIDs[d.NumAllIDs]
			return
		}
	}
}
