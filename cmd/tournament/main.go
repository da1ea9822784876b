// Command tournament runs round-robin self-play between a roster of AIs,
// trains a dualnet network on the resulting dataset, and writes both a
// checkpoint and a scoreboard image.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/sevenwd/sevenwd/ai"
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	dual "github.com/sevenwd/sevenwd/dualnet"
	"github.com/sevenwd/sevenwd/mcts"
	"github.com/sevenwd/sevenwd/tensorize"
	"github.com/sevenwd/sevenwd/tools/statsimage"
	"github.com/sevenwd/sevenwd/tournament"
	"github.com/sevenwd/sevenwd/training"
)

func main() {
	var (
		checkpointDir = flag.String("checkpoint", "checkpoint", "directory to load/save the network checkpoint")
		generations   = flag.Int("generations", 1, "number of self-play-then-train generations to run")
		gamesPerGen   = flag.Int("games", 200, "self-play games per generation")
		threads       = flag.Int("threads", 0, "worker goroutines (0 = runtime.NumCPU())")
		nniters       = flag.Int("nniters", 10, "gradient steps per batch")
		scoreboard    = flag.String("scoreboard", "scoreboard.png", "path to write the win-rate scoreboard PNG")
	)
	flag.Parse()

	log.SetFlags(log.Ltime)

	cat := catalog.New(1)
	features := tensorize.BaseTensorSize + tensorize.ExtraTensorSize
	conf := dual.DefaultConf(features, controller.MaxNumMoves)

	var nn *dual.Dual
	if _, err := os.Stat(*checkpointDir); err == nil {
		var loadErr error
		nn, _, loadErr = training.Load(*checkpointDir)
		if loadErr != nil {
			log.Fatalf("load checkpoint: %v", loadErr)
		}
		log.Printf("resumed checkpoint from %s", *checkpointDir)
	} else {
		nn = dual.New(conf)
		if err := nn.Init(); err != nil {
			log.Fatalf("init network: %v", err)
		}
	}

	mctsConf := mcts.DefaultConfig()

	factory := func() (mcts.Inferencer, error) {
		inf, err := dual.Infer(nn, true)
		if err != nil {
			return nil, err
		}
		return tensorize.NewNetwork(inf, 0), nil
	}

	mainAI, err := ai.NewMCTSAi("net", controller.New(cat), mctsConf, factory)
	if err != nil {
		log.Fatalf("build mcts ai: %v", err)
	}

	roster := []ai.AI{mainAI, ai.NewRandAI(1), ai.NewNoBurnAI(2), ai.NewPriorityAI(true, true)}
	tour := tournament.New(cat)
	for _, a := range roster {
		tour.Register(a)
	}

	ctx := context.Background()
	for gen := 0; gen < *generations; gen++ {
		log.Printf("generation %d", gen)
		n, err := training.RunGeneration(ctx, tour, nn, mainAI, *gamesPerGen, *threads, *nniters)
		if err != nil {
			log.Fatalf("generation %d: %v", gen, err)
		}
		log.Printf("generation %d: trained on %d samples", gen, n)

		meta := training.Meta{NNConf: nn.Config, MCTSConf: mctsConf}
		if err := training.Save(*checkpointDir, nn, meta); err != nil {
			log.Fatalf("save checkpoint: %v", err)
		}
	}

	if err := writeScoreboard(*scoreboard, tour, roster); err != nil {
		log.Fatalf("write scoreboard: %v", err)
	}
}

func writeScoreboard(path string, tour *tournament.Tournament, roster []ai.AI) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows := make([]statsimage.Row, len(roster))
	for i, a := range roster {
		stats := tour.Stats(a)
		avgMS := float64(0)
		if stats.Games > 0 {
			avgMS = float64(stats.DecisionTime.Milliseconds()) / float64(stats.Games)
		}
		rows[i] = statsimage.Row{Name: a.Name(), Games: stats.Games, WinRate: stats.WinRate(), AvgMoveMS: avgMS}
	}
	return statsimage.Render(f, rows)
}
