package scan

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var errBarrierPending = errors.New("scan: file emitted before ignore files finished loading")

// barrier counts outstanding ignore-file loads. Tasks may schedule further
// tasks while running; the barrier clears once every task has returned and
// Wait has observed it.
type barrier struct {
	g       *errgroup.Group
	ctx     context.Context
	pending atomic.Int64
	cleared atomic.Bool
}

func newBarrier(ctx context.Context) *barrier {
	g, gctx := errgroup.WithContext(ctx)
	return &barrier{g: g, ctx: gctx}
}

func (b *barrier) Go(fn func(ctx context.Context) error) {
	b.pending.Add(1)
	b.g.Go(func() error {
		defer b.pending.Add(-1)
		return fn(b.ctx)
	})
}

func (b *barrier) Wait() error {
	if err := b.g.Wait(); err != nil {
		return err
	}
	b.cleared.Store(b.pending.Load() == 0)
	return nil
}

func (b *barrier) Cleared() bool {
	return b.cleared.Load()
}
