package engine

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/sevenwd/sevenwd/catalog"
)

// blobMagic/blobVersion identify the GameState wire format, mirroring
// GameStateSerialization.cpp's '7WGS' magic and version byte.
var blobMagic = [4]byte{'7', 'W', 'G', 'S'}

const blobVersion = 3

// packNode encodes a CardNode into the original's single u32 bit layout:
// parent0:5@0, parent1:5@5, child0:5@10, child1:5@15, cardId:10@20,
// visible:1@30, isGuildCard:1@31.
func packNode(n CardNode) uint32 {
	var v uint32
	v |= uint32(n.Parent0) & 0x1F
	v |= (uint32(n.Parent1) & 0x1F) << 5
	v |= (uint32(n.Child0) & 0x1F) << 10
	v |= (uint32(n.Child1) & 0x1F) << 15
	v |= (uint32(n.CardID) & 0x3FF) << 20
	if n.Visible {
		v |= 1 << 30
	}
	if n.IsGuildCard {
		v |= 1 << 31
	}
	return v
}

func unpackNode(v uint32) CardNode {
	return CardNode{
		Parent0:     uint8(v & 0x1F),
		Parent1:     uint8((v >> 5) & 0x1F),
		Child0:      uint8((v >> 10) & 0x1F),
		Child1:      uint8((v >> 15) & 0x1F),
		CardID:      uint16((v >> 20) & 0x3FF),
		Visible:     v&(1<<30) != 0,
		IsGuildCard: v&(1<<31) != 0,
	}
}

func writeGraph(buf *bytes.Buffer, g *CardGraph) {
	for _, n := range g.Nodes {
		binary.Write(buf, binary.LittleEndian, packNode(n))
	}
	binary.Write(buf, binary.LittleEndian, g.PlayableCards)
	binary.Write(buf, binary.LittleEndian, g.NumPlayableCards)
	binary.Write(buf, binary.LittleEndian, g.AvailableAgeCards)
	binary.Write(buf, binary.LittleEndian, g.NumAvailableAgeCards)
	binary.Write(buf, binary.LittleEndian, g.AvailableGuildCards)
	binary.Write(buf, binary.LittleEndian, g.NumAvailableGuildCards)
	binary.Write(buf, binary.LittleEndian, g.Age)
}

func readGraph(r *bytes.Reader, g *CardGraph) error {
	for i := range g.Nodes {
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return err
		}
		g.Nodes[i] = unpackNode(v)
	}
	if err := binary.Read(r, binary.LittleEndian, &g.PlayableCards); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &g.NumPlayableCards); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &g.AvailableAgeCards); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &g.NumAvailableAgeCards); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &g.AvailableGuildCards); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &g.NumAvailableGuildCards); err != nil {
		return err
	}
	return binary.Read(r, binary.LittleEndian, &g.Age)
}

// Serialize encodes the GameState into the versioned wire blob described in
// SPEC_FULL.md §6. The Catalog field is not part of the wire format: the
// caller supplies it again on Deserialize (it is shared, read-only
// construction-time state, not per-game state).
func (gs *GameState) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(blobMagic[:])
	buf.WriteByte(blobVersion)

	binary.Write(&buf, binary.LittleEndian, gs.State)
	binary.Write(&buf, binary.LittleEndian, gs.CurrentAge)
	binary.Write(&buf, binary.LittleEndian, gs.PlayerTurn)
	binary.Write(&buf, binary.LittleEndian, gs.NumTurnPlayed)
	binary.Write(&buf, binary.LittleEndian, gs.Military)
	binary.Write(&buf, binary.LittleEndian, gs.MilitaryToken2)
	binary.Write(&buf, binary.LittleEndian, gs.MilitaryToken5)

	binary.Write(&buf, binary.LittleEndian, gs.NumScienceToken)
	binary.Write(&buf, binary.LittleEndian, gs.ScienceTokens)
	binary.Write(&buf, binary.LittleEndian, gs.GreatLibraryDrawn)

	binary.Write(&buf, binary.LittleEndian, gs.NumPlayedAgeCards)
	binary.Write(&buf, binary.LittleEndian, gs.PlayedAgeCardIDs)

	writeDiscarded(&buf, &gs.Discarded)

	binary.Write(&buf, binary.LittleEndian, gs.WonderDraftPool)
	binary.Write(&buf, binary.LittleEndian, gs.NumWonderDraftPool)
	binary.Write(&buf, binary.LittleEndian, gs.CurrentDraftRound)
	binary.Write(&buf, binary.LittleEndian, gs.PicksInRound)

	for i := range gs.Cities {
		writeCity(&buf, &gs.Cities[i])
	}

	for i := range gs.Graphs {
		writeGraph(&buf, &gs.Graphs[i])
	}
	writeGraph(&buf, &gs.ActiveGraph)

	binary.Write(&buf, binary.LittleEndian, gs.IsDeterministic)

	return buf.Bytes()
}

func writeDiscarded(buf *bytes.Buffer, d *DiscardedCards) {
	binary.Write(buf, binary.LittleEndian, d.AllIDs)
	binary.Write(buf, binary.LittleEndian, d.NumAllIDs)
	binary.Write(buf, binary.LittleEndian, d.BestProductionCardID)
	binary.Write(buf, binary.LittleEndian, d.BestBlueCardID)
	binary.Write(buf, binary.LittleEndian, d.BestMilitaryCardID)
	binary.Write(buf, binary.LittleEndian, d.ScienceCardIDs)
	binary.Write(buf, binary.LittleEndian, d.GuildCardIDs)
	binary.Write(buf, binary.LittleEndian, d.NumGuildCardIDs)
	binary.Write(buf, binary.LittleEndian, d.BestYellowGoldRewardCardID)
	binary.Write(buf, binary.LittleEndian, d.BestYellowWeakNormalCardID)
	binary.Write(buf, binary.LittleEndian, d.BestYellowWeakRareCardID)
	binary.Write(buf, binary.LittleEndian, d.DiscountCardIDs)
	binary.Write(buf, binary.LittleEndian, d.NumDiscountCardIDs)
	binary.Write(buf, binary.LittleEndian, d.GoldPerCardTypeCardIDs)
	binary.Write(buf, binary.LittleEndian, d.NumGoldPerCardTypeCardIDs)
}

func readDiscarded(r *bytes.Reader, d *DiscardedCards) error {
	fields := []interface{}{
		&d.AllIDs, &d.NumAllIDs, &d.BestProductionCardID, &d.BestBlueCardID,
		&d.BestMilitaryCardID, &d.ScienceCardIDs, &d.GuildCardIDs, &d.NumGuildCardIDs,
		&d.BestYellowGoldRewardCardID, &d.BestYellowWeakNormalCardID, &d.BestYellowWeakRareCardID,
		&d.DiscountCardIDs, &d.NumDiscountCardIDs, &d.GoldPerCardTypeCardIDs, &d.NumGoldPerCardTypeCardIDs,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func writeCity(buf *bytes.Buffer, p *PlayerCity) {
	binary.Write(buf, binary.LittleEndian, p.Gold)
	binary.Write(buf, binary.LittleEndian, p.VictoryPoints)
	binary.Write(buf, binary.LittleEndian, p.ChainingSymbols)
	binary.Write(buf, binary.LittleEndian, p.OwnedScienceTokens)
	binary.Write(buf, binary.LittleEndian, p.OwnedGuildCards)
	binary.Write(buf, binary.LittleEndian, p.OwnedScienceSymbol)
	binary.Write(buf, binary.LittleEndian, p.NumScienceSymbols)
	binary.Write(buf, binary.LittleEndian, p.NumCardPerType)
	binary.Write(buf, binary.LittleEndian, p.Production)
	binary.Write(buf, binary.LittleEndian, p.WeakProduction)
	binary.Write(buf, binary.LittleEndian, p.ResourceDiscount)
	binary.Write(buf, binary.LittleEndian, p.BestProductionCardID)
	binary.Write(buf, binary.LittleEndian, p.UnbuildWonders)
	binary.Write(buf, binary.LittleEndian, p.UnbuildWonderCount)
}

func readCity(r *bytes.Reader, p *PlayerCity) error {
	fields := []interface{}{
		&p.Gold, &p.VictoryPoints, &p.ChainingSymbols, &p.OwnedScienceTokens,
		&p.OwnedGuildCards, &p.OwnedScienceSymbol, &p.NumScienceSymbols,
		&p.NumCardPerType, &p.Production, &p.WeakProduction, &p.ResourceDiscount,
		&p.BestProductionCardID, &p.UnbuildWonders, &p.UnbuildWonderCount,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a wire blob produced by Serialize into gs, leaving gs
// unchanged on any validation failure (bad magic, version, or truncation).
func Deserialize(cat *catalog.Catalog, blob []byte) (*GameState, error) {
	if len(blob) < 5 {
		return nil, errors.New("sevenwd blob: too short")
	}
	if !bytes.Equal(blob[:4], blobMagic[:]) {
		return nil, errors.New("sevenwd blob: bad magic")
	}
	if blob[4] != blobVersion {
		return nil, errors.Errorf("sevenwd blob: unsupported version %d", blob[4])
	}

	r := bytes.NewReader(blob[5:])
	gs := &GameState{Catalog: cat}

	readFields := []interface{}{
		&gs.State, &gs.CurrentAge, &gs.PlayerTurn, &gs.NumTurnPlayed, &gs.Military,
		&gs.MilitaryToken2, &gs.MilitaryToken5,
		&gs.NumScienceToken, &gs.ScienceTokens, &gs.GreatLibraryDrawn,
		&gs.NumPlayedAgeCards, &gs.PlayedAgeCardIDs,
	}
	for _, f := range readFields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, errors.Wrap(err, "sevenwd blob: scalar section")
		}
	}

	if err := readDiscarded(r, &gs.Discarded); err != nil {
		return nil, errors.Wrap(err, "sevenwd blob: discarded-cards section")
	}

	draftFields := []interface{}{
		&gs.WonderDraftPool, &gs.NumWonderDraftPool, &gs.CurrentDraftRound, &gs.PicksInRound,
	}
	for _, f := range draftFields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, errors.Wrap(err, "sevenwd blob: draft section")
		}
	}

	for i := range gs.Cities {
		if err := readCity(r, &gs.Cities[i]); err != nil {
			return nil, errors.Wrapf(err, "sevenwd blob: city %d", i)
		}
	}

	for i := range gs.Graphs {
		if err := readGraph(r, &gs.Graphs[i]); err != nil {
			return nil, errors.Wrapf(err, "sevenwd blob: graph %d", i)
		}
	}
	if err := readGraph(r, &gs.ActiveGraph); err != nil {
		return nil, errors.Wrap(err, "sevenwd blob: active graph")
	}

	if err := binary.Read(r, binary.LittleEndian, &gs.IsDeterministic); err != nil {
		return nil, errors.Wrap(err, "sevenwd blob: trailer")
	}

	return gs, nil
}
