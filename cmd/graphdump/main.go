// Command graphdump plays a handful of random moves from a fresh game and
// writes the resulting CardGraph out as a graphviz .dot file, a debug aid
// for inspecting the card DAG's shape.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/sevenwd/sevenwd/catalog"
	"github.com/sevenwd/sevenwd/controller"
	"github.com/sevenwd/sevenwd/tools/graphviz"
)

func main() {
	var (
		out   = flag.String("out", "cardgraph.dot", "path to write the .dot file")
		moves = flag.Int("moves", 10, "number of random moves to play before dumping")
		seed  = flag.Int64("seed", 1, "catalog/rng seed")
	)
	flag.Parse()
	log.SetFlags(log.Ltime)

	cat := catalog.New(*seed)
	c := controller.New(cat)
	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *moves; i++ {
		if ended, _ := c.Ended(); ended {
			break
		}
		legal := c.EnumerateMoves()
		if len(legal) == 0 {
			break
		}
		c = c.Apply(legal[rng.Intn(len(legal))])
	}

	dot, err := graphviz.Dump(cat, &c.State.ActiveGraph)
	if err != nil {
		log.Fatalf("dump graph: %v", err)
	}
	if err := os.WriteFile(*out, []byte(dot), 0644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("wrote %s", *out)
}
