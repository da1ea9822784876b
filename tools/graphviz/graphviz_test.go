package graphviz_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/tools/graphviz"
)

func TestDumpProducesADotDocumentWithAPlayableNodeHighlighted(t *testing.T) {
	cat := catalog.New(1)
	c := controller.New(cat)
	// Advance past the wonder draft into the card-graph-driven Play state.
	for i := 0; i < 20; i++ {
		legal := c.EnumerateMoves()
		if len(legal) == 0 {
			break
		}
		c = c.Apply(legal[0])
		if c.State.ActiveGraph.NumPlayableCards > 0 {
			break
		}
	}

	dot, err := graphviz.Dump(cat, &c.State.ActiveGraph)
	require.NoError(t, err)
	require.True(t, strings.Contains(dot, "cardgraph"))
}
