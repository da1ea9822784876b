// Package ai collects the pluggable move-selection strategies a tournament
// or a human-facing CLI can drive: uniform-random and hand-written-priority
// baselines, a plain Monte Carlo rollout AI, and a PUCT/dualnet-backed AI
// built on top of the mcts package.
package ai

import (
	"context"

	"github.com/sevenwd/sevenwd/controller"
)

// AI picks a move from a controller state given the already-enumerated
// legal move list (the caller owns enumeration so a tournament can reuse it
// across several AIs looking at the same position). It returns the chosen
// move, a confidence/value estimate in [0, 1], and an error only for
// genuine I/O or cancellation failures -- an AI never returns a move not
// present in legal.
type AI interface {
	SelectMove(ctx context.Context, c *controller.Controller, legal []controller.Move) (controller.Move, float32, error)
	Name() string
}

// ThreadContexter is implemented by an AI whose SelectMove benefits from
// reusable per-goroutine scratch state (a thread-local game clone, sample
// buffers). A tournament worker calls NewThreadContext once per goroutine
// rather than once per move.
type ThreadContexter interface {
	NewThreadContext() ThreadContext
}

// ThreadContext is scratch state scoped to one tournament worker goroutine,
// released when the worker shuts down.
type ThreadContext interface {
	Close() error
}

// PUCTSource is implemented by an AI that can prime a PUCT search's root
// priors from something other than a trained net (a hand-tuned heuristic,
// or a deterministic UCB1 pass used to bootstrap the very first generation
// of self-play before any net has been trained).
type PUCTSource interface {
	FillPUCTPriors(tc ThreadContext, out *[36]float32)
}

// ThreadContextAI is implemented by an AI whose move selection must run
// against the ThreadContext a prior NewThreadContext call handed out, rather
// than against any shared state on the AI itself (an MCTS search tree is not
// safe to share between worker goroutines, so each gets its own). A
// tournament worker prefers this over plain SelectMove whenever both the AI
// and a live ThreadContext are available.
type ThreadContextAI interface {
	SelectMoveTC(ctx context.Context, c *controller.Controller, legal []controller.Move, tc ThreadContext) (controller.Move, float32, error)
}
