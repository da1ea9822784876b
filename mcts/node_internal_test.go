package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newBareTree() *MCTS {
	return &MCTS{
		nodes:    make([]Node, 0, 8),
		children: make([][]naughty, 0, 8),
	}
}

func TestSelectUCB1PrefersTheHigherMeanRewardAtEqualVisits(t *testing.T) {
	tr := newBareTree()
	root := tr.New(-1, 0)
	rootNode := tr.nodeFromNaughty(root)

	low := tr.New(0, 0)
	tr.nodeFromNaughty(low).Update(0.2)
	rootNode.AddChild(low)

	high := tr.New(1, 0)
	tr.nodeFromNaughty(high).Update(0.8)
	rootNode.AddChild(high)

	best := tr.nodeFromNaughty(root).SelectUCB1(0)
	require.Equal(t, high, best)
}

func TestSelectUCB1ExploresAnUnvisitedChildOverAVisitedOne(t *testing.T) {
	tr := newBareTree()
	root := tr.New(-1, 0)
	rootNode := tr.nodeFromNaughty(root)

	visited := tr.New(0, 0)
	tr.nodeFromNaughty(visited).Update(1)
	rootNode.AddChild(visited)

	unvisited := tr.New(1, 0)
	un := tr.nodeFromNaughty(unvisited)
	un.lock.Lock()
	un.visits = 0
	un.lock.Unlock()
	rootNode.AddChild(unvisited)

	best := tr.nodeFromNaughty(root).SelectUCB1(ucbExploration)
	require.Equal(t, unvisited, best)
}

func TestSelectUCB1SkipsInactiveChildren(t *testing.T) {
	tr := newBareTree()
	root := tr.New(-1, 0)
	rootNode := tr.nodeFromNaughty(root)

	pruned := tr.New(0, 0)
	tr.nodeFromNaughty(pruned).Update(1)
	tr.nodeFromNaughty(pruned).Prune()
	rootNode.AddChild(pruned)

	active := tr.New(1, 0)
	rootNode.AddChild(active)

	best := tr.nodeFromNaughty(root).SelectUCB1(ucbExploration)
	require.Equal(t, active, best)
}
