package tournament

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/sevenwd/sevenwd/controller"
)

// datasetMagic/datasetVersion identify the dataset wire format.
var datasetMagic = [4]byte{'7', 'W', 'D', 'S'}

const datasetVersion = 2

// Sample is one labeled training point: a pre-decision GameState blob, the
// PUCT visit vector of the AI that was about to move (zeros if it wasn't a
// PUCT AI), and the eventual game outcome.
type Sample struct {
	Winner  uint8
	WinType controller.WinType
	Priors  [36]float32
	Blob    []byte
}

// EncodeDataset writes samples in the '7WDS' wire format described in
// SPEC_FULL.md §6.
func EncodeDataset(samples []Sample) []byte {
	var buf bytes.Buffer
	buf.Write(datasetMagic[:])
	buf.WriteByte(datasetVersion)
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))

	for _, s := range samples {
		buf.WriteByte(s.Winner)
		buf.WriteByte(uint8(s.WinType))
		binary.Write(&buf, binary.LittleEndian, s.Priors)
		binary.Write(&buf, binary.LittleEndian, uint32(len(s.Blob)))
		buf.Write(s.Blob)
	}
	return buf.Bytes()
}

// DecodeDataset validates the header and reads every sample back. On any
// failure it returns an error and no partial result.
func DecodeDataset(data []byte) ([]Sample, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := r.Read(magic[:]); err != nil {
		return nil, errors.Wrap(err, "tournament: read dataset magic")
	}
	if magic != datasetMagic {
		return nil, errors.Errorf("tournament: bad dataset magic %q", magic)
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "tournament: read dataset version")
	}
	if version != datasetVersion {
		return nil, errors.Errorf("tournament: unsupported dataset version %d", version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "tournament: read dataset count")
	}

	samples := make([]Sample, count)
	for i := range samples {
		s := &samples[i]
		winner, err := r.ReadByte()
		if err != nil {
			return nil, errors.Wrapf(err, "tournament: read winner for sample %d", i)
		}
		s.Winner = winner

		winType, err := r.ReadByte()
		if err != nil {
			return nil, errors.Wrapf(err, "tournament: read win-type for sample %d", i)
		}
		s.WinType = controller.WinType(winType)

		if err := binary.Read(r, binary.LittleEndian, &s.Priors); err != nil {
			return nil, errors.Wrapf(err, "tournament: read priors for sample %d", i)
		}

		var blobLen uint32
		if err := binary.Read(r, binary.LittleEndian, &blobLen); err != nil {
			return nil, errors.Wrapf(err, "tournament: read blob length for sample %d", i)
		}
		blob := make([]byte, blobLen)
		if _, err := io.ReadFull(r, blob); err != nil {
			return nil, errors.Wrapf(err, "tournament: read blob for sample %d", i)
		}
		s.Blob = blob
	}
	return samples, nil
}
