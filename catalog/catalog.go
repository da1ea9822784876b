package catalog

import "math/rand"

// MaxCardsPerAge bounds the per-age card pool (age cards + guild slots on
// age III), matching GameContext::MaxCardsPerAge.
const MaxCardsPerAge = 30

// Catalog is the construct-once, read-only table of every Card definition
// plus a private RNG stream shared by higher layers (Catalog.Rand), exactly
// as GameContext exposes its own rand() stream. The seed only influences
// runtime randomness owned by the Catalog (shuffles); card definitions are
// static data.
type Catalog struct {
	rand *rand.Rand

	age1Cards   []Card
	age2Cards   []Card
	age3Cards   []Card
	guildCards  []Card
	wonders     [NumWonders]Card
	tokens      [NumScienceTokens]Card

	allCards []Card // indexed by global id
}

// New builds the Catalog from static card data, seeding its private RNG.
func New(seed int64) *Catalog {
	c := &Catalog{rand: rand.New(rand.NewSource(seed))}
	c.fillAge1()
	c.fillAge2()
	c.fillAge3()
	c.fillGuildCards()
	c.fillWonders()
	c.fillScienceTokens()
	return c
}

// Rand returns the catalog's shared RNG stream, exactly as the original's
// GameContext::rand() lets every layer draw from one stream.
func (c *Catalog) Rand() *rand.Rand { return c.rand }

func (c *Catalog) appendAll(cards []*Card, ageLocalStart int) {
	for i, card := range cards {
		card.setID(uint8(len(c.allCards)), uint8(ageLocalStart+i))
		c.allCards = append(c.allCards, *card)
	}
}

func (c *Catalog) fillAge1() {
	cards := []*Card{
		NewBlueCard("Autel", 3).WithChainOut(Moon),
		NewBlueCard("Bains", 3).WithResourceCost(Stone).WithChainOut(WaterDrop),
		NewBlueCard("Theater", 3).WithChainOut(Mask),

		NewBrownCard("Chantier", Wood, 1),
		NewBrownCard("Exploitation", Wood, 1).WithGoldCost(1),
		NewBrownCard("BassinArgileux", Clay, 1),
		NewBrownCard("Cavite", Clay, 1).WithGoldCost(1),
		NewBrownCard("Gisement", Stone, 1),
		NewBrownCard("Mine", Stone, 1).WithGoldCost(1),

		NewGreyCard("Verrerie", Glass).WithGoldCost(1),
		NewGreyCard("Presse", Papyrus).WithGoldCost(1),

		NewYellowCard("Taverne", 0).WithGoldReward(4).WithChainOut(Jar),
		NewYellowCard("DepotBois", 0).WithGoldCost(3).WithResourceDiscount(Wood),
		NewYellowCard("DepotArgile", 0).WithGoldCost(3).WithResourceDiscount(Clay),
		NewYellowCard("DepotPierre", 0).WithGoldCost(3).WithResourceDiscount(Stone),

		NewMilitaryCard("TourDeGarde", 1),
		NewMilitaryCard("Caserne", 1).WithResourceCost(Clay).WithChainOut(Sword),
		NewMilitaryCard("Ecurie", 1).WithResourceCost(Wood).WithChainOut(Horseshoe),
		NewMilitaryCard("Palissade", 1).WithGoldCost(2).WithChainOut(Tower),

		NewScienceCard("Apothicaire", Wheel, 1).WithResourceCost(Glass),
		NewScienceCard("Atelier", Triangle, 1).WithResourceCost(Papyrus),
		NewScienceCard("Scriptorium", Script, 0).WithGoldCost(2).WithChainOut(Book),
		NewScienceCard("Officine", Bowl, 0).WithGoldCost(2).WithChainOut(Gear),
	}
	c.age1Cards = flatten(cards)
	c.appendAll(cards, 0)
}

func (c *Catalog) fillAge2() {
	cards := []*Card{
		NewBlueCard("Tribunal", 5).WithResourceCost(Wood, Wood, Glass),
		NewBlueCard("Statue", 4).WithResourceCost(Clay, Clay).WithChainIn(Mask).WithChainOut(GreekPillar),
		NewBlueCard("Temple", 4).WithResourceCost(Wood, Papyrus).WithChainIn(Moon).WithChainOut(Sun),
		NewBlueCard("Aqueduc", 5).WithResourceCost(Stone, Stone, Stone).WithChainIn(WaterDrop),
		NewBlueCard("Rostres", 4).WithResourceCost(Stone, Wood).WithChainOut(Bank),

		NewBrownCard("Scierie", Wood, 2).WithGoldCost(2),
		NewBrownCard("Briquerie", Clay, 2).WithGoldCost(2),
		NewBrownCard("Carriere", Stone, 2).WithGoldCost(2),

		NewGreyCard("Soufflerie", Glass),
		NewGreyCard("Sechoire", Papyrus),

		NewYellowCard("Brasserie", 0).WithGoldReward(6).WithChainOut(Barrel),
		NewYellowCard("Caravanserail", 0).WithGoldCost(2).WithResourceCost(Glass, Papyrus).WithWeakResourceProduction(Wood, Clay, Stone),
		NewYellowCard("Forum", 0).WithGoldCost(3).WithResourceCost(Clay).WithWeakResourceProduction(Glass, Papyrus),
		NewYellowCard("Douane", 0).WithGoldCost(4).WithResourceDiscount(Papyrus, Glass),

		NewMilitaryCard("Haras", 1).WithResourceCost(Clay, Wood).WithChainIn(Horseshoe),
		NewMilitaryCard("Baraquements", 1).WithGoldCost(3).WithChainIn(Sword),
		NewMilitaryCard("ChampsDeTir", 2).WithResourceCost(Stone, Wood, Papyrus).WithChainOut(Target),
		NewMilitaryCard("PlaceArmes", 2).WithResourceCost(Clay, Clay, Glass).WithChainOut(Helmet),
		NewMilitaryCard("Muraille", 2).WithResourceCost(Stone, Stone),

		NewScienceCard("Ecole", Wheel, 1).WithResourceCost(Wood, Papyrus, Papyrus).WithChainOut(Harp),
		NewScienceCard("Laboratoire", Triangle, 1).WithResourceCost(Wood, Glass, Glass).WithChainOut(Lamp),
		NewScienceCard("Bibliotheque", Script, 2).WithResourceCost(Stone, Wood, Glass).WithChainIn(Book),
		NewScienceCard("Dispensaire", Bowl, 2).WithResourceCost(Clay, Clay, Stone).WithChainIn(Gear),
	}
	c.age2Cards = flatten(cards)
	c.appendAll(cards, 0)
}

func (c *Catalog) fillAge3() {
	cards := []*Card{
		NewBlueCard("Senat", 5).WithResourceCost(Clay, Clay, Stone, Papyrus).WithChainIn(Bank),
		NewBlueCard("Obelisque", 5).WithResourceCost(Stone, Stone, Glass),
		NewBlueCard("Jardins", 6).WithResourceCost(Clay, Clay, Wood, Wood).WithChainIn(GreekPillar),
		NewBlueCard("Pantheon", 6).WithResourceCost(Clay, Wood, Papyrus, Papyrus).WithChainIn(Sun),
		NewBlueCard("Palace", 7).WithResourceCost(Clay, Stone, Wood, Glass, Glass),
		NewBlueCard("HotelDeVille", 7).WithResourceCost(Stone, Stone, Stone, Wood, Wood),

		NewMilitaryCard("Fortifications", 2).WithResourceCost(Stone, Stone, Clay, Papyrus).WithChainIn(Tower),
		NewMilitaryCard("Cirque", 2).WithResourceCost(Clay, Clay, Stone, Stone).WithChainIn(Helmet),
		NewMilitaryCard("AtelierDeSiege", 2).WithResourceCost(Wood, Wood, Wood, Glass).WithChainIn(Target),
		NewMilitaryCard("Arsenal", 3).WithResourceCost(Clay, Clay, Clay, Wood, Wood),
		NewMilitaryCard("Pretoire", 3).WithGoldCost(8),

		NewYellowCard("Armurerie", 3).WithResourceCost(Stone, Stone, Glass).WithGoldRewardForCardColorCount(1, Military),
		NewYellowCard("Phare", 3).WithResourceCost(Clay, Clay, Glass).WithGoldRewardForCardColorCount(1, Yellow).WithChainIn(Jar),
		NewYellowCard("Port", 3).WithResourceCost(Wood, Glass, Papyrus).WithGoldRewardForCardColorCount(2, Brown),
		NewYellowCard("ChambreDeCommerce", 3).WithResourceCost(Papyrus, Papyrus).WithGoldRewardForCardColorCount(3, Grey),
		NewYellowCard("Arene", 3).WithResourceCost(Clay, Stone, Wood).WithGoldRewardForCardColorCount(2, Wonder).WithChainIn(Barrel),

		NewScienceCard("Observatoire", Globe, 2).WithResourceCost(Stone, Papyrus, Papyrus).WithChainIn(Lamp),
		NewScienceCard("University", Globe, 2).WithResourceCost(Clay, Glass, Papyrus).WithChainIn(Harp),
		NewScienceCard("Etude", SolarClock, 3).WithResourceCost(Wood, Wood, Glass, Papyrus),
		NewScienceCard("Academie", SolarClock, 3).WithResourceCost(Stone, Wood, Glass, Glass),
	}
	c.age3Cards = flatten(cards)
	// fillAge3 runs before fillGuildCards, so len(c.guildCards) is still 0
	// here and Age III local ids start at 0.
	c.appendAll(cards, len(c.guildCards))
}

func (c *Catalog) fillGuildCards() {
	cards := []*Card{
		NewGuildCard("GuildeDesArmateurs", Brown, 1, 1).WithResourceCost(Clay, Stone, Glass, Papyrus),
		NewGuildCard("GuildeDesCommercant", Yellow, 1, 1).WithResourceCost(Clay, Wood, Glass, Papyrus),
		NewGuildCard("GuildeDesTacticiens", Military, 1, 1).WithResourceCost(Stone, Stone, Clay, Papyrus),
		NewGuildCard("GuildeDesMagistrats", Blue, 1, 1).WithResourceCost(Wood, Wood, Clay, Papyrus),
		NewGuildCard("GuildeDesSciences", Science, 1, 1).WithResourceCost(Clay, Clay, Wood, Wood),
		NewGuildCard("GuildeDesBatisseurs", Wonder, 0, 2).WithResourceCost(Stone, Stone, Clay, Wood, Glass),
		// Usurers guild scores no per-card-type bonus; its gold-VP-doubling
		// effect is handled directly in PlayerCity.ComputeVictoryPoint,
		// fixing the original's out-of-range CardType::Count bit test (see
		// DESIGN.md decision #3).
		NewGuildCard("GuildeDesUsuriers", NumCardTypes, 0, 0).WithResourceCost(Stone, Stone, Wood, Wood),
	}
	c.guildCards = flatten(cards)
	c.appendAll(cards, 0)
}

// UsurersGuildLocalIndex is the guild's index within guildCards; used to
// test "does this player own the Usurers guild" for the gold-VP doubling.
const UsurersGuildLocalIndex = 6

func (c *Catalog) fillWonders() {
	c.wonders[CircusMaximus] = *NewWonderCard(CircusMaximus, "CircusMaximus", 3, false).WithMilitary(1).WithResourceCost(Stone, Stone, Wood, Glass)
	c.wonders[Coloss] = *NewWonderCard(Coloss, "LeColosse", 3, false).WithMilitary(2).WithResourceCost(Clay, Clay, Clay, Glass)
	c.wonders[GreatLighthouse] = *NewWonderCard(GreatLighthouse, "LeGrandPhare", 4, false).WithWeakResourceProduction(Clay, Stone, Wood).WithResourceCost(Papyrus, Papyrus, Stone, Wood)
	c.wonders[HangingGarden] = *NewWonderCard(HangingGarden, "JardinSuspendus", 3, true).WithGoldReward(6).WithResourceCost(Papyrus, Glass, Wood, Wood)
	c.wonders[GreatLibrary] = *NewWonderCard(GreatLibrary, "GreatLibrary", 4, false).WithResourceCost(Wood, Wood, Wood, Glass, Papyrus)
	c.wonders[Piraeus] = *NewWonderCard(Piraeus, "LaPiree", 2, true).WithWeakResourceProduction(Papyrus, Glass).WithResourceCost(Clay, Stone, Wood, Wood)
	c.wonders[Pyramids] = *NewWonderCard(Pyramids, "LesPyramides", 9, false).WithResourceCost(Papyrus, Stone, Stone, Stone)
	c.wonders[Sphinx] = *NewWonderCard(Sphinx, "Sphinx", 6, true).WithResourceCost(Stone, Clay, Glass, Glass)
	c.wonders[Zeus] = *NewWonderCard(Zeus, "StatueDeZeus", 3, false).WithMilitary(1).WithResourceCost(Papyrus, Papyrus, Clay, Wood, Stone)
	c.wonders[Atremis] = *NewWonderCard(Atremis, "TempleArtemis", 0, true).WithGoldReward(12).WithResourceCost(Wood, Stone, Glass, Papyrus)
	c.wonders[ViaAppia] = *NewWonderCard(ViaAppia, "LaViaAppia", 3, true).WithGoldReward(3).WithResourceCost(Clay, Clay, Stone, Stone, Papyrus)
	c.wonders[Mausoleum] = *NewWonderCard(Mausoleum, "Mausoleum", 2, false).WithResourceCost(Papyrus, Glass, Glass, Clay, Clay)

	for i := range c.wonders {
		c.wonders[i].setID(uint8(len(c.allCards)), 0xFF)
		c.allCards = append(c.allCards, c.wonders[i])
	}
}

func (c *Catalog) fillScienceTokens() {
	c.tokens[Agriculture] = *NewScienceTokenCard(Agriculture, "Agriculture", 6, 4)
	c.tokens[Architecture] = *NewScienceTokenCard(Architecture, "Architecture", 0, 0)
	c.tokens[Economy] = *NewScienceTokenCard(Economy, "Economy", 0, 0)
	c.tokens[LawToken] = *NewScienceTokenCard(LawToken, "Law", 0, 0)
	c.tokens[Masonry] = *NewScienceTokenCard(Masonry, "Masonry", 0, 0)
	c.tokens[Mathematics] = *NewScienceTokenCard(Mathematics, "Mathematics", 0, 0)
	c.tokens[Philosophy] = *NewScienceTokenCard(Philosophy, "Philosophy", 0, 7)
	c.tokens[Strategy] = *NewScienceTokenCard(Strategy, "Strategy", 0, 0)
	c.tokens[Theology] = *NewScienceTokenCard(Theology, "Theology", 0, 0)
	c.tokens[TownPlanning] = *NewScienceTokenCard(TownPlanning, "TownPlanning", 6, 0)

	for i := range c.tokens {
		c.tokens[i].setID(uint8(len(c.allCards)), 0xFF)
		c.allCards = append(c.allCards, c.tokens[i])
	}
}

func flatten(cards []*Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = *c
	}
	return out
}

// GetCard resolves any card by its global id (age card, guild, wonder or
// token all live in the same flat id space).
func (c *Catalog) GetCard(id uint8) *Card { return &c.allCards[id] }

func (c *Catalog) Age1Card(localIdx int) *Card { return &c.age1Cards[localIdx] }
func (c *Catalog) Age2Card(localIdx int) *Card { return &c.age2Cards[localIdx] }
func (c *Catalog) Age3Card(localIdx int) *Card { return &c.age3Cards[localIdx] }
func (c *Catalog) GuildCard(localIdx int) *Card { return &c.guildCards[localIdx] }
func (c *Catalog) Wonder(w Wonders) *Card      { return &c.wonders[w] }
func (c *Catalog) ScienceToken(t ScienceToken) *Card { return &c.tokens[t] }

func (c *Catalog) Age1CardCount() int { return len(c.age1Cards) }
func (c *Catalog) Age2CardCount() int { return len(c.age2Cards) }
func (c *Catalog) Age3CardCount() int { return len(c.age3Cards) }
func (c *Catalog) GuildCardCount() int { return len(c.guildCards) }

func (c *Catalog) AllGuildCards() []Card { return c.guildCards }
