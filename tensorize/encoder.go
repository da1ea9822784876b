package tensorize

import (
	"github.com/sevenwd/sevenwd/controller"
)

// netInferer is the slice of dualnet.Inferer this package needs: feeding it
// a flat feature vector and reading back a policy/value pair. Defined
// locally (rather than importing dualnet for the interface) so tensorize
// stays usable against any forward-pass implementation with this shape.
type netInferer interface {
	Infer(a []float32) (policy []float32, value float32, err error)
}

// Network adapts a dualnet.Inferer into an mcts.Inferencer: it builds the
// combined Base+Extra feature vector for mainPlayer's point of view, runs
// it through Net, and hands the result back in the shape a search tree
// expects. A zero-value Network is not usable; build one with NewNetwork.
type Network struct {
	Net        netInferer
	MainPlayer uint8
}

// NewNetwork wraps net for mainPlayer's perspective.
func NewNetwork(net netInferer, mainPlayer uint8) *Network {
	return &Network{Net: net, MainPlayer: mainPlayer}
}

// Infer satisfies mcts.Inferencer. A forward-pass error (for example a
// snapshot inferer that was closed mid-search) degrades to a uniform
// policy and a neutral value rather than aborting the search.
func (n *Network) Infer(c *controller.Controller) (policy []float32, value float32) {
	base := Base(c, n.MainPlayer)
	extra := Extra(c)
	features := make([]float32, 0, len(base)+len(extra))
	features = append(features, base...)
	features = append(features, extra...)

	policy, value, err := n.Net.Infer(features)
	if err != nil {
		uniform := make([]float32, controller.MaxNumMoves)
		p := float32(1) / float32(len(uniform))
		for i := range uniform {
			uniform[i] = p
		}
		return uniform, 0
	}
	return policy, value
}
