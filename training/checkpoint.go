// Package training persists a trained network and its configuration to
// disk, and drives the self-play-then-train loop that produces one, working
// against an entire tournament roster instead of a single best/current
// agent pair.
package training

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/sevenwd/sevenwd/ai"
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	dual "github.com/sevenwd/sevenwd/dualnet"
	"github.com/sevenwd/sevenwd/engine"
	"github.com/sevenwd/sevenwd/mcts"
	"github.com/sevenwd/sevenwd/tensorize"
	"github.com/sevenwd/sevenwd/tournament"
)

const (
	metaFile  = "meta.json"
	modelFile = "checkpoint.model"
)

// Meta is the non-weight part of a checkpoint: enough to reconstruct the
// network's graph shape and the search budget it was trained against.
type Meta struct {
	NNConf   dual.Config `json:"nn_conf"`
	MCTSConf mcts.Config `json:"mcts_conf"`
}

// Save writes nn's weights and conf to dir/checkpoint.model and
// dir/meta.json, creating dir if it does not already exist.
func Save(dir string, nn *dual.Dual, conf Meta) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "training: mkdir checkpoint dir")
	}

	jsonStr, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "training: marshal meta")
	}
	if err := ioutil.WriteFile(filepath.Join(dir, metaFile), jsonStr, 0644); err != nil {
		return errors.Wrap(err, "training: write meta")
	}

	f, err := os.OpenFile(filepath.Join(dir, modelFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "training: open model file")
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(nn); err != nil {
		return errors.Wrap(err, "training: encode model")
	}
	return nil
}

// Load reads a checkpoint previously written by Save, returning the
// restored network and the meta it was trained under.
func Load(dir string) (*dual.Dual, Meta, error) {
	var meta Meta
	metaStr, err := ioutil.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, meta, errors.Wrap(err, "training: read meta")
	}
	if err := json.Unmarshal(metaStr, &meta); err != nil {
		return nil, meta, errors.Wrap(err, "training: unmarshal meta")
	}

	f, err := os.Open(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, meta, errors.Wrap(err, "training: open model file")
	}
	defer f.Close()

	nn := &dual.Dual{}
	if err := gob.NewDecoder(f).Decode(nn); err != nil {
		return nil, meta, errors.Wrap(err, "training: decode model")
	}
	return nn, meta, nil
}

// RunGeneration plays mainAI against the rest of tour's roster until at
// least count samples are gathered, trains nn on them for nniters gradient steps
// per batch, and returns how many samples were produced -- one "generation"
// of AZ.LearnAZ's self-play-then-train cycle, reworked around a
// tournament.Tournament roster instead of a fixed best/current agent pair.
func RunGeneration(ctx context.Context, tour *tournament.Tournament, nn *dual.Dual, mainAI ai.AI, count, threads, nniters int) (int, error) {
	samples, err := tour.GenerateDatasetFromAI(ctx, mainAI, count, threads)
	if err != nil {
		return 0, errors.WithMessage(err, "training: self-play")
	}
	if len(samples) == 0 {
		return 0, errors.New("training: self-play produced no samples")
	}

	xs, policies, values, batches := prepareSamples(samples, nn.Config)
	if batches == 0 {
		return len(samples), errors.New("training: too few samples for one batch")
	}
	if err := dual.Train(nn, xs, policies, values, batches, nniters); err != nil {
		return len(samples), errors.WithMessage(err, "training: train")
	}
	return len(samples), nil
}

// prepareSamples decodes every sample's GameState blob back into feature
// vectors and stacks them into dense tensors shaped for dual.Train,
// discarding any incomplete trailing batch.
func prepareSamples(samples []tournament.Sample, conf dual.Config) (xs, policies, values *tensor.Dense, batches int) {
	cat := catalog.New(1)
	batches = len(samples) / conf.BatchSize
	total := batches * conf.BatchSize

	var xsBacking, policiesBacking, valuesBacking []float32
	for i := 0; i < total; i++ {
		s := samples[i]
		c, err := decodeBlob(cat, s.Blob)
		if err != nil {
			continue
		}
		mainPlayer := c.State.PlayerTurn
		features := tensorize.Base(c, mainPlayer)
		features = append(features, tensorize.Extra(c)...)
		xsBacking = append(xsBacking, features...)
		policiesBacking = append(policiesBacking, s.Priors[:]...)

		value := float32(-1)
		if s.Winner == mainPlayer {
			value = 1
		}
		valuesBacking = append(valuesBacking, value)
	}

	xs = tensor.New(tensor.WithBacking(xsBacking), tensor.WithShape(total, conf.Features))
	policies = tensor.New(tensor.WithBacking(policiesBacking), tensor.WithShape(total, conf.ActionSpace))
	values = tensor.New(tensor.WithBacking(valuesBacking), tensor.WithShape(total))
	return
}

func decodeBlob(cat *catalog.Catalog, blob []byte) (*controller.Controller, error) {
	gs, err := engine.Deserialize(cat, blob)
	if err != nil {
		return nil, fmt.Errorf("training: deserialize sample blob: %w", err)
	}
	return &controller.Controller{State: gs}, nil
}
