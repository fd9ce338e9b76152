package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

var (
	ErrThinking = errors.New("engine is already thinking")
	ErrIdle     = errors.New("engine is not thinking")
)

// Thinker runs engine searches off the caller's goroutine. At most one
// search runs at a time and it works on a private clone of the board, so
// the caller may keep using its own board meanwhile. Results are collected
// by a single consumer with Poll or Wait.
type Thinker struct {
	engine *Engine

	mu     sync.Mutex
	group  *errgroup.Group
	cancel context.CancelFunc
	done   chan Result
}

// NewThinker wraps an engine. The engine must not be used directly while a
// search is running; its OnInfo callback is invoked on the worker goroutine.
func NewThinker(e *Engine) *Thinker {
	return &Thinker{engine: e}
}

// Engine returns the wrapped engine.
func (t *Thinker) Engine() *Engine {
	return t.engine
}

// Start launches a search of b for its side to move.
func (t *Thinker) Start(ctx context.Context, b *board.Board) error {
	return t.start(ctx, b, func(ctx context.Context, snap *board.Board) Result {
		return t.engine.Search(ctx, snap)
	})
}

// StartWithLimits launches a search with explicit limits instead of the
// engine's difficulty.
func (t *Thinker) StartWithLimits(ctx context.Context, b *board.Board, limits SearchLimits) error {
	return t.start(ctx, b, func(ctx context.Context, snap *board.Board) Result {
		return t.engine.SearchWithLimits(ctx, snap, limits)
	})
}

func (t *Thinker) start(ctx context.Context, b *board.Board, run func(context.Context, *board.Board) Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		return ErrThinking
	}

	snapshot := b.Clone()
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan Result, 1)
	g.Go(func() error {
		done <- run(gctx, snapshot)
		return nil
	})

	t.group, t.cancel, t.done = g, cancel, done
	log.Debug().Str("fen", snapshot.ToFEN()).Msg("thinking")
	return nil
}

// Thinking reports whether a search has been started and not collected.
func (t *Thinker) Thinking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done != nil
}

// Poll returns the result if the search has finished, without blocking.
func (t *Thinker) Poll() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return Result{}, false
	}
	select {
	case r := <-t.done:
		t.finishLocked()
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the running search finishes and returns its result.
func (t *Thinker) Wait() (Result, error) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done == nil {
		return Result{}, ErrIdle
	}

	r := <-done

	t.mu.Lock()
	t.finishLocked()
	t.mu.Unlock()
	return r, nil
}

// Cancel asks the running search to stop at the next root move. The result
// of the last completed depth is still delivered through Poll or Wait.
func (t *Thinker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *Thinker) finishLocked() {
	if t.group != nil {
		_ = t.group.Wait()
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.group, t.cancel, t.done = nil, nil, nil
}
