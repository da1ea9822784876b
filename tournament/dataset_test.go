package tournament_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/tournament"
)

func TestEncodeDecodeDatasetRoundTrips(t *testing.T) {
	samples := []tournament.Sample{
		{Winner: 0, WinType: controller.WinCivil, Priors: [36]float32{0: 0.5, 1: 0.5}, Blob: []byte("hello")},
		{Winner: 1, WinType: controller.WinMilitary, Priors: [36]float32{}, Blob: nil},
		{Winner: 0, WinType: controller.WinScience, Priors: [36]float32{35: 1}, Blob: []byte{1, 2, 3, 4, 5}},
	}

	encoded := tournament.EncodeDataset(samples)
	decoded, err := tournament.DecodeDataset(encoded)
	require.NoError(t, err)
	require.Equal(t, samples, decoded)
}

func TestEncodeDecodeEmptyDataset(t *testing.T) {
	encoded := tournament.EncodeDataset(nil)
	decoded, err := tournament.DecodeDataset(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestDecodeDatasetRejectsBadMagic(t *testing.T) {
	_, err := tournament.DecodeDataset([]byte("nope"))
	require.Error(t, err)
}

func TestDecodeDatasetRejectsUnsupportedVersion(t *testing.T) {
	encoded := tournament.EncodeDataset(nil)
	encoded[4] = 99 // version byte right after the 4-byte magic
	_, err := tournament.DecodeDataset(encoded)
	require.Error(t, err)
}

func TestDecodeDatasetRejectsTruncatedData(t *testing.T) {
	samples := []tournament.Sample{
		{Winner: 0, WinType: controller.WinCivil, Blob: []byte("hello world")},
	}
	encoded := tournament.EncodeDataset(samples)
	_, err := tournament.DecodeDataset(encoded[:len(encoded)-3])
	require.Error(t, err)
}
