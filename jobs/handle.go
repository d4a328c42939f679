package jobs

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Handle tracks a scheduled job. The zero of *Handle (nil) is an already
// completed job with no error, so it can be passed as "no dependency".
type Handle struct {
	g    *errgroup.Group
	done chan struct{}
}

// Schedule runs fn on its own goroutine once dep has completed. If dep fails,
// fn is not run and the returned handle reports the dependency error.
func Schedule(dep *Handle, fn func() error) *Handle {
	h := &Handle{
		g:    new(errgroup.Group),
		done: make(chan struct{}),
	}
	h.g.Go(func() error {
		defer close(h.done)
		if err := dep.Complete(); err != nil {
			return fmt.Errorf("dependency: %w", err)
		}
		return fn()
	})
	return h
}

// CombineDependencies returns a handle that completes when all handles have
// completed. Its error joins the errors of the failed handles.
func CombineDependencies(handles ...*Handle) *Handle {
	return Schedule(nil, func() error {
		var errs []error
		for _, h := range handles {
			if err := h.Complete(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Complete blocks until the job has finished and returns its error. It may
// be called any number of times.
func (h *Handle) Complete() error {
	if h == nil {
		return nil
	}
	return h.g.Wait()
}

// IsCompleted reports whether the job has finished without blocking.
func (h *Handle) IsCompleted() bool {
	if h == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
