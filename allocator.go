package parallellist

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	streamerrors "github.com/Fire-Aalt/parallellist/errors"
)

// Allocator provides the backing memory of a list's buckets.
//
// Allocate returns a zero-length slice with capacity of at least capacity
// elements. It must not fail: implementations panic with an error wrapping
// ErrOutOfMemory when memory cannot be obtained. Free releases a slice
// previously returned by Allocate, passed back with its original capacity.
//
// A list calls Allocate and Free concurrently from different workers while
// buckets grow, so implementations must be safe for concurrent use.
type Allocator[T any] interface {
	Allocate(capacity int) []T
	Free(buf []T) error
}

// HeapAllocator allocates buckets on the Go heap. It is the default.
type HeapAllocator[T any] struct{}

// Allocate returns make([]T, 0, capacity).
func (HeapAllocator[T]) Allocate(capacity int) []T {
	return make([]T, 0, capacity)
}

// Free leaves the memory to the garbage collector.
func (HeapAllocator[T]) Free([]T) error {
	return nil
}

// TrackingAllocator wraps another allocator and counts the allocations it
// hands out. Tests use it to prove that a list releases everything it
// allocated.
type TrackingAllocator[T any] struct {
	inner Allocator[T]

	live        atomic.Int64
	liveBytes   atomic.Int64
	allocations atomic.Int64
	frees       atomic.Int64
}

// NewTrackingAllocator returns a tracking allocator around inner. A nil inner
// tracks heap allocations.
func NewTrackingAllocator[T any](inner Allocator[T]) *TrackingAllocator[T] {
	if inner == nil {
		inner = HeapAllocator[T]{}
	}
	return &TrackingAllocator[T]{inner: inner}
}

// Allocate forwards to the wrapped allocator and records the allocation.
func (a *TrackingAllocator[T]) Allocate(capacity int) []T {
	buf := a.inner.Allocate(capacity)
	a.live.Add(1)
	a.liveBytes.Add(sizeOf[T](cap(buf)))
	a.allocations.Add(1)
	return buf
}

// Free forwards to the wrapped allocator and records the release.
func (a *TrackingAllocator[T]) Free(buf []T) error {
	a.live.Add(-1)
	a.liveBytes.Add(-sizeOf[T](cap(buf)))
	a.frees.Add(1)
	return a.inner.Free(buf)
}

// Live returns the number of allocations not yet freed.
func (a *TrackingAllocator[T]) Live() int64 { return a.live.Load() }

// LiveBytes returns the number of bytes not yet freed.
func (a *TrackingAllocator[T]) LiveBytes() int64 { return a.liveBytes.Load() }

// Allocations returns the total number of Allocate calls.
func (a *TrackingAllocator[T]) Allocations() int64 { return a.allocations.Load() }

// Frees returns the total number of Free calls.
func (a *TrackingAllocator[T]) Frees() int64 { return a.frees.Load() }

func sizeOf[T any](n int) int64 {
	var z T
	return int64(n) * int64(unsafe.Sizeof(z))
}

// outOfMemory panics with an error wrapping ErrOutOfMemory.
func outOfMemory(capacity int, cause error) {
	panic(fmt.Errorf("%w: %d elements: %w", streamerrors.ErrOutOfMemory, capacity, cause))
}
