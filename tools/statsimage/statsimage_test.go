package statsimage_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/tools/statsimage"
)

func TestRenderProducesADecodablePNG(t *testing.T) {
	rows := []statsimage.Row{
		{Name: "RandAI", Games: 10, WinRate: 0.4, AvgMoveMS: 0.2},
		{Name: "MCTS", Games: 10, WinRate: 0.6, AvgMoveMS: 120},
	}

	var buf bytes.Buffer
	require.NoError(t, statsimage.Render(&buf, rows))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Greater(t, img.Bounds().Dy(), 0)
	require.Greater(t, img.Bounds().Dx(), 0)
}

func TestRenderWithNoRowsStillProducesAHeaderOnlyImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, statsimage.Render(&buf, nil))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Greater(t, img.Bounds().Dy(), 0)
}
