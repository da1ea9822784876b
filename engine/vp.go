package engine

import "github.com/sevenwd/sevenwd/catalog"

// computeVictoryPoint totals a city's civil score: accumulated card VP,
// gold/3 (doubled if the city owns the Usurers guild — fixed from the
// original's out-of-range bit test, see DESIGN.md decision #3), plus
// per-guild bonuses.
func computeVictoryPoint(cat *catalog.Catalog, city, other *PlayerCity) uint8 {
	goldVP := city.Gold / 3
	if city.HasGuild(catalog.UsurersGuildLocalIndex) {
		goldVP *= 2
	}

	var guildVP uint8
	for _, guild := range cat.AllGuildCards() {
		if !city.HasGuild(guild.AgeID()) {
			continue
		}
		bonusType := guild.GuildBonusType()
		if bonusType >= catalog.NumCardTypes {
			continue // Usurers: handled entirely via the gold-VP doubling above
		}
		mine := city.countForGuildBonus(bonusType)
		theirs := other.countForGuildBonus(bonusType)
		best := mine
		if theirs > best {
			best = theirs
		}
		guildVP += guild.VictoryPoints() * best
	}

	return city.VictoryPoints + goldVP + guildVP
}

// WinType classifies why a game ended.
type WinType uint8

const (
	WinNone WinType = iota
	WinCivil
	WinMilitary
	WinScience
)

// findWinner computes the civil-VP winner for an Age-III-complete game,
// applying the military bonus and the Blue-card tiebreak: strictly more
// Blue cards wins the tie, and player 1 wins if that too is tied. Mirrors
// GameEngine.cpp's findWinner.
func (gs *GameState) findWinner() uint8 {
	vp := [2]uint8{
		computeVictoryPoint(gs.Catalog, &gs.Cities[0], &gs.Cities[1]),
		computeVictoryPoint(gs.Catalog, &gs.Cities[1], &gs.Cities[0]),
	}

	abs := gs.Military
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 6:
		bonusTo(&vp, gs.Military, 10)
	case abs >= 3:
		bonusTo(&vp, gs.Military, 5)
	case abs >= 1:
		bonusTo(&vp, gs.Military, 2)
	}

	if vp[0] == vp[1] {
		if gs.Cities[0].NumCardPerType[catalog.Blue] > gs.Cities[1].NumCardPerType[catalog.Blue] {
			return 0
		}
		return 1
	}
	if vp[0] > vp[1] {
		return 0
	}
	return 1
}

// bonusTo adds the military bonus to whichever side the track favors
// (positive military favors player 0).
func bonusTo(vp *[2]uint8, military int8, bonus uint8) {
	if military > 0 {
		vp[0] += bonus
	} else if military < 0 {
		vp[1] += bonus
	}
}
