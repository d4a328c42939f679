package jobs

import (
	"context"
	"fmt"
	"sync/atomic"

	streamerrors "github.com/Fire-Aalt/parallellist/errors"
	"golang.org/x/sync/errgroup"
)

// Scheduler dispatches work over a fixed set of worker slots.
//
// Within one dispatch every worker goroutine owns exactly one slot, so
// containers partitioned by slot can be written without synchronization. A
// Scheduler may be reused for any number of sequential dispatches; running
// two dispatches concurrently on the same containers breaks slot exclusivity.
type Scheduler struct {
	workers int
}

// New creates a scheduler. Use WithWorkers to run fewer workers than there
// are slots.
func New(opts ...Option) (*Scheduler, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	workers := cfg.workers
	if workers <= 0 {
		workers = ThreadIndexCount()
	}
	if workers > ThreadIndexCount() {
		return nil, fmt.Errorf("%w: %d > %d", streamerrors.ErrTooManyWorkers, workers, ThreadIndexCount())
	}

	return &Scheduler{workers: workers}, nil
}

// Workers returns the number of worker goroutines a dispatch may use.
func (s *Scheduler) Workers() int {
	return s.workers
}

// For calls fn(worker, index) for every index in [0, n).
//
// Indices are claimed in batches of batch consecutive indices; each worker
// goroutine keeps claiming batches until none remain. worker is the slot of
// the goroutine running the call and is never shared by two goroutines of the
// same dispatch. For returns after every worker has exited. The first error
// stops further batches from being claimed and is returned; cancellation of
// ctx is checked between batches.
func (s *Scheduler) For(ctx context.Context, n, batch int, fn func(worker, index int) error) error {
	if batch <= 0 {
		return streamerrors.ErrInvalidBatch
	}
	if n <= 0 {
		return nil
	}

	batches := (n + batch - 1) / batch
	workers := min(s.workers, batches)

	var cursor atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for worker := range workers {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				b := int(cursor.Add(1) - 1)
				if b >= batches {
					return nil
				}
				start := b * batch
				end := min(start+batch, n)
				for i := start; i < end; i++ {
					if err := fn(worker, i); err != nil {
						return err
					}
				}
			}
		})
	}
	return g.Wait()
}

// Run calls fn once per worker slot, concurrently, and returns after all
// calls have returned.
func (s *Scheduler) Run(ctx context.Context, fn func(worker int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for worker := range s.workers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(worker)
		})
	}
	return g.Wait()
}
