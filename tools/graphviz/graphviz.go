// Package graphviz renders a CardGraph snapshot as a graphviz .dot document,
// a debug aid for visualizing the face-down/face-up DAG a controller is
// currently holding.
package graphviz

import (
	"fmt"

	"github.com/awalterschulze/gographviz"

	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/engine"
)

// Dump renders g's current nodes and parent/child edges as a .dot document.
// Face-down nodes are labeled "face-down" and are left out while their card
// is still undrawn; face-up nodes carry their catalog card name. Playable nodes (no remaining children) are filled.
func Dump(cat *catalog.Catalog, g *engine.CardGraph) (string, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName("cardgraph"); err != nil {
		return "", fmt.Errorf("graphviz: set name: %w", err)
	}
	if err := graph.SetDir(true); err != nil {
		return "", fmt.Errorf("graphviz: set directed: %w", err)
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.CardID == engine.InvalidCardID && !n.Visible {
			continue
		}
		name := nodeName(i)
		attrs := map[string]string{"label": fmt.Sprintf("\"%s\"", nodeLabel(cat, n))}
		if n.HasNoChildren() {
			attrs["style"] = "filled"
			attrs["fillcolor"] = "lightgreen"
		}
		if err := graph.AddNode("cardgraph", name, attrs); err != nil {
			return "", fmt.Errorf("graphviz: add node %d: %w", i, err)
		}
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.CardID == engine.InvalidCardID && !n.Visible {
			continue
		}
		for _, child := range []uint8{n.Child0, n.Child1} {
			if child == engine.InvalidNode {
				continue
			}
			if err := graph.AddEdge(nodeName(i), nodeName(int(child)), true, nil); err != nil {
				return "", fmt.Errorf("graphviz: add edge %d->%d: %w", i, child, err)
			}
		}
	}

	return graph.String(), nil
}

func nodeName(i int) string {
	return fmt.Sprintf("n%d", i)
}

func nodeLabel(cat *catalog.Catalog, n *engine.CardNode) string {
	if !n.Visible {
		return "face-down"
	}
	card := cat.GetCard(uint8(n.CardID))
	return card.Name()
}
