package dual_test

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/dualnet"
)

func TestDefaultConfIsValid(t *testing.T) {
	conf := dual.DefaultConf(150, 36)
	require.True(t, conf.IsValid())
	require.Equal(t, 150, conf.Features)
	require.Equal(t, 36, conf.ActionSpace)
	require.Equal(t, 3, conf.SharedLayers)
	require.Equal(t, 300, conf.FC)
	require.GreaterOrEqual(t, conf.K, 1)
}

func TestConfigIsValidRejectsDegenerateConfigs(t *testing.T) {
	base := dual.DefaultConf(150, 36)

	zeroK := base
	zeroK.K = 0
	require.False(t, zeroK.IsValid())

	tinyActionSpace := base
	tinyActionSpace.ActionSpace = 1
	require.False(t, tinyActionSpace.IsValid())

	zeroFC := base
	zeroFC.FC = 1
	require.False(t, zeroFC.IsValid())

	zeroBatch := base
	zeroBatch.BatchSize = 0
	require.False(t, zeroBatch.IsValid())

	zeroFeatures := base
	zeroFeatures.Features = 0
	require.False(t, zeroFeatures.IsValid())
}

func TestNewBuildsAForwardOnlyGraphThatSurvivesInit(t *testing.T) {
	conf := dual.DefaultConf(12, 6)
	conf.BatchSize = 4
	conf.FwdOnly = true

	nn := dual.New(conf)
	require.NoError(t, nn.Init())
}

// TestGobRoundTripPreservesConfigAndWeightShapes rebuilds a network from its
// gob encoding and checks that inference still runs against the restored
// weights without error, producing policy vectors of the right width.
func TestGobRoundTripPreservesConfigAndWeightShapes(t *testing.T) {
	conf := dual.DefaultConf(10, 5)
	conf.BatchSize = 2

	nn := dual.New(conf)
	require.NoError(t, nn.Init())

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(nn))

	restored := &dual.Dual{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(restored))
	require.Equal(t, conf.Features, restored.Config.Features)
	require.Equal(t, conf.ActionSpace, restored.Config.ActionSpace)

	inf, err := dual.Infer(restored, true)
	require.NoError(t, err)
	defer inf.Close()

	policy, value, err := inf.Infer(make([]float32, conf.Features))
	require.NoError(t, err)
	require.Len(t, policy, conf.ActionSpace)
	require.GreaterOrEqual(t, value, float32(-1))
	require.LessOrEqual(t, value, float32(1))
}

func TestInferProducesANormalizedPolicyOverActionSpace(t *testing.T) {
	conf := dual.DefaultConf(8, 4)
	conf.BatchSize = 1

	nn := dual.New(conf)
	require.NoError(t, nn.Init())

	inf, err := dual.Infer(nn, true)
	require.NoError(t, err)
	defer inf.Close()

	policy, _, err := inf.Infer(make([]float32, conf.Features))
	require.NoError(t, err)
	require.Len(t, policy, conf.ActionSpace)

	var sum float32
	for _, p := range policy {
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-3)
}
