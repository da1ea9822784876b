// Command play drives an interactive game between a human at the terminal
// and an AI, choosing moves by typing the index printed next to them.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sevenwd/sevenwd/ai"
	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	dual "github.com/sevenwd/sevenwd/dualnet"
	"github.com/sevenwd/sevenwd/mcts"
	"github.com/sevenwd/sevenwd/tensorize"
	"github.com/sevenwd/sevenwd/training"
)

func main() {
	var (
		checkpointDir = flag.String("checkpoint", "", "network checkpoint to play against (empty = NoBurnAI baseline)")
		humanSeat     = flag.Uint("seat", 0, "which player seat (0 or 1) the human controls")
	)
	flag.Parse()
	log.SetFlags(log.Ltime)

	cat := catalog.New(1)
	opponentSeat := uint8(1 - (*humanSeat)%2)
	opponent, err := buildOpponent(*checkpointDir, opponentSeat)
	if err != nil {
		log.Fatalf("build opponent: %v", err)
	}

	c := controller.New(cat)
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	for {
		if ended, winner := c.Ended(); ended {
			reportResult(winner, uint8(*humanSeat), c.WinType)
			return
		}

		legal := c.EnumerateMoves()
		if len(legal) == 0 {
			fmt.Println("no legal moves; game stuck")
			return
		}

		if c.State.PlayerTurn == uint8(*humanSeat) {
			move := promptMove(reader, legal)
			c = c.Apply(move)
			continue
		}

		move, _, err := opponent.SelectMove(ctx, c, legal)
		if err != nil {
			log.Fatalf("opponent move: %v", err)
		}
		fmt.Printf("opponent (%s) plays %s\n", opponent.Name(), describeMove(move))
		c = c.Apply(move)
	}
}

func buildOpponent(checkpointDir string, seat uint8) (ai.AI, error) {
	if checkpointDir == "" {
		return ai.NewNoBurnAI(1), nil
	}

	nn, meta, err := training.Load(checkpointDir)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	factory := func() (mcts.Inferencer, error) {
		inf, err := dual.Infer(nn, true)
		if err != nil {
			return nil, err
		}
		return tensorize.NewNetwork(inf, seat), nil
	}
	return ai.NewMCTSAi("checkpoint", controller.New(catalog.New(1)), meta.MCTSConf, factory)
}

func promptMove(reader *bufio.Reader, legal []controller.Move) controller.Move {
	for {
		fmt.Println("choose a move:")
		for i, m := range legal {
			fmt.Printf("  [%d] %s\n", i, describeMove(m))
		}
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("read input: %v", err)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || idx < 0 || idx >= len(legal) {
			fmt.Println("invalid choice, try again")
			continue
		}
		return legal[idx]
	}
}

func describeMove(m controller.Move) string {
	switch m.Action {
	case controller.ActionDraftWonder:
		return fmt.Sprintf("draft wonder slot %d", m.PlayableCard)
	case controller.ActionPick:
		return fmt.Sprintf("pick playable card %d", m.PlayableCard)
	case controller.ActionBurn:
		return fmt.Sprintf("burn playable card %d", m.PlayableCard)
	case controller.ActionBuildWonder:
		return fmt.Sprintf("build wonder %d using card %d", m.WonderIndex, m.PlayableCard)
	case controller.ActionScienceToken:
		return fmt.Sprintf("take science token %d", m.PlayableCard)
	default:
		return "unknown move"
	}
}

func reportResult(winner, humanSeat uint8, winType controller.WinType) {
	if winner == controller.NoWinner {
		fmt.Println("draw")
		return
	}
	who := "the AI"
	if winner == humanSeat {
		who = "you"
	}
	fmt.Printf("%s won by %s\n", who, winTypeName(winType))
}

func winTypeName(t controller.WinType) string {
	switch t {
	case controller.WinCivil:
		return "civilian victory"
	case controller.WinMilitary:
		return "military supremacy"
	case controller.WinScience:
		return "scientific supremacy"
	default:
		return "unknown means"
	}
}
