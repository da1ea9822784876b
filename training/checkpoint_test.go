package training_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	dual "github.com/sevenwd/sevenwd/dualnet"
	"github.com/sevenwd/sevenwd/mcts"
	"github.com/sevenwd/sevenwd/training"
)

func TestSaveLoadRoundTripsConfigAndWeights(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoint")

	conf := dual.DefaultConf(10, 5)
	conf.BatchSize = 2
	nn := dual.New(conf)
	require.NoError(t, nn.Init())

	meta := training.Meta{NNConf: conf, MCTSConf: mcts.DefaultConfig()}
	require.NoError(t, training.Save(dir, nn, meta))

	restored, restoredMeta, err := training.Load(dir)
	require.NoError(t, err)
	require.Equal(t, conf, restoredMeta.NNConf)
	require.Equal(t, meta.MCTSConf, restoredMeta.MCTSConf)

	inf, err := dual.Infer(restored, true)
	require.NoError(t, err)
	defer inf.Close()

	policy, _, err := inf.Infer(make([]float32, conf.Features))
	require.NoError(t, err)
	require.Len(t, policy, conf.ActionSpace)
}

func TestLoadMissingCheckpointReturnsAnError(t *testing.T) {
	_, _, err := training.Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}
