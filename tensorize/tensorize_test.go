package tensorize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/tensorize"
)

func TestBaseHasTheComputedWidthForBothPlayers(t *testing.T) {
	cat := catalog.New(3)
	c := controller.New(cat)

	for player := uint8(0); player < 2; player++ {
		vec := tensorize.Base(c, player)
		require.Len(t, vec, tensorize.BaseTensorSize)
	}
}

func TestExtraHasFixedWidthAcrossGameStates(t *testing.T) {
	cat := catalog.New(3)
	c := controller.New(cat)

	require.Equal(t, 145, tensorize.ExtraTensorSize)

	for i := 0; i < 40; i++ {
		legal := c.EnumerateMoves()
		if len(legal) == 0 {
			break
		}
		vec := tensorize.Extra(c)
		require.Len(t, vec, tensorize.ExtraTensorSize)

		c = c.Apply(legal[0])
		if ended, _ := c.Ended(); ended {
			break
		}
	}
}

func TestToVec32RoundTripsTheBackingData(t *testing.T) {
	features := []float32{1, 2, 3, -1, 0.5}
	v := tensorize.ToVec32(features)
	require.Len(t, v, len(features))
	for i, f := range features {
		require.Equal(t, f, v[i])
	}
}
