package engine

import "math/rand"

// genPyramidGraph lays out numRow rows of widths 2..2+numRow-1 starting at
// graph.Nodes[startIndex], alternating visibility (even rows face up),
// wiring parent/child pointers between consecutive rows. Returns the next
// free node index. Mirrors GameEngine.cpp's genPyramidGraph.
func genPyramidGraph(g *CardGraph, numRow int, startIndex int, guild bool) int {
	node := startIndex
	rowStart := startIndex
	for row := 0; row < numRow; row++ {
		width := 2 + row
		visible := row%2 == 0
		prevRowStart := rowStart - (width - 1)
		for col := 0; col < width; col++ {
			g.Nodes[node] = newNode(guild)
			g.Nodes[node].Visible = visible
			if row > 0 {
				if col > 0 {
					p := prevRowStart + col - 1
					g.Nodes[node].Parent0 = uint8(p)
					wireChild(g, p, uint8(node))
				}
				if col < width-1 {
					p := prevRowStart + col
					g.Nodes[node].Parent1 = uint8(p)
					wireChild(g, p, uint8(node))
				}
			}
			node++
		}
		rowStart = node
	}
	return node
}

// genInversePyramidGraph lays out numRow rows starting at baseSize and
// shrinking by one per row, each node (after the first row) parented by the
// two nodes above it. Mirrors genInversePyramidGraph.
func genInversePyramidGraph(g *CardGraph, baseSize, numRow, startIndex int, guild bool) int {
	node := startIndex
	prevRowStart := -1
	for row := 0; row < numRow; row++ {
		width := baseSize - row
		visible := row%2 == 0
		for col := 0; col < width; col++ {
			g.Nodes[node] = newNode(guild)
			g.Nodes[node].Visible = visible
			if row > 0 {
				p0 := prevRowStart + col
				p1 := prevRowStart + col + 1
				g.Nodes[node].Parent0 = uint8(p0)
				g.Nodes[node].Parent1 = uint8(p1)
				wireChild(g, p0, uint8(node))
				wireChild(g, p1, uint8(node))
			}
			node++
		}
		prevRowStart = node - width
	}
	return node
}

func wireChild(g *CardGraph, parent int, child uint8) {
	if g.Nodes[parent].Child0 == InvalidNode {
		g.Nodes[parent].Child0 = child
	} else {
		g.Nodes[parent].Child1 = child
	}
}

// pickCardIndex draws a random index in [0, count) from a pool, swap-removes
// it (swap with the last live entry, decrement count), and returns the value
// that was at that index.
func pickCardIndex(r *rand.Rand, pool []uint8, count *uint8) uint8 {
	idx := r.Intn(int(*count))
	v := pool[idx]
	*count--
	pool[idx] = pool[*count]
	return v
}

// resolveCardID fills in a face-down node's CardID by drawing from the
// relevant remaining pool (guild pool if the node is a guild slot, else the
// graph's per-age pool), leaving Visible untouched. Mirrors the card-draw
// half of pickCardAdnInitNode; used both by resolveNode (reveal) and by
// determinization (fix identity without revealing).
func (gs *GameState) resolveCardID(g *CardGraph, nodeIdx uint8) {
	n := &g.Nodes[nodeIdx]
	if n.CardID != InvalidCardID {
		return
	}
	r := gs.Catalog.Rand()
	if n.IsGuildCard {
		localID := pickCardIndex(r, g.AvailableGuildCards[:], &g.NumAvailableGuildCards)
		n.CardID = uint16(gs.Catalog.GuildCard(int(localID)).ID())
		return
	}
	localID := pickCardIndex(r, g.AvailableAgeCards[:], &g.NumAvailableAgeCards)
	var cardID uint8
	switch g.Age {
	case 0:
		cardID = gs.Catalog.Age1Card(int(localID)).ID()
	case 1:
		cardID = gs.Catalog.Age2Card(int(localID)).ID()
	default:
		cardID = gs.Catalog.Age3Card(int(localID)).ID()
	}
	n.CardID = uint16(cardID)
}

// resolveNode resolves a face-down node's card id (if not already fixed by
// an earlier determinization) and marks it visible. Called when a node
// actually becomes playable. Mirrors pickCardAdnInitNode.
func (gs *GameState) resolveNode(g *CardGraph, nodeIdx uint8) {
	gs.resolveCardID(g, nodeIdx)
	g.Nodes[nodeIdx].Visible = true
}

// unlinkNodeFromGraph detaches nodeIdx's parents' child pointers, pushing
// any parent that becomes childless onto the playable list (resolving it if
// it was face-down). Mirrors unlinkNodeFromGraph.
func (gs *GameState) unlinkNodeFromGraph(g *CardGraph, nodeIdx uint8) {
	n := &g.Nodes[nodeIdx]
	for _, parent := range []uint8{n.Parent0, n.Parent1} {
		if parent == InvalidNode {
			continue
		}
		p := &g.Nodes[parent]
		if p.Child0 == nodeIdx {
			p.Child0 = InvalidNode
		} else if p.Child1 == nodeIdx {
			p.Child1 = InvalidNode
		}
		if p.HasNoChildren() {
			if !p.Visible {
				gs.resolveNode(g, parent)
			}
			g.PlayableCards[g.NumPlayableCards] = parent
			g.NumPlayableCards++
		}
	}
}

// removePlayable swap-removes the node at playable-list index idx.
func (g *CardGraph) removePlayable(idx uint8) uint8 {
	node := g.PlayableCards[idx]
	g.NumPlayableCards--
	g.PlayableCards[idx] = g.PlayableCards[g.NumPlayableCards]
	return node
}

// computeNumDiscoveriesIfPicked counts how many of the given playable
// node's face-down parents would become childless (and thus reveal) if it
// were picked — a heuristic tensorizer signal.
func (gs *GameState) computeNumDiscoveriesIfPicked(g *CardGraph, playableIdx uint8) int {
	node := g.PlayableCards[playableIdx]
	n := &g.Nodes[node]
	count := 0
	for _, parent := range []uint8{n.Parent0, n.Parent1} {
		if parent == InvalidNode {
			continue
		}
		p := &g.Nodes[parent]
		if p.Visible {
			continue
		}
		other := p.Child0
		if other == node {
			other = p.Child1
		}
		if other == InvalidNode {
			count++
		}
	}
	return count
}
