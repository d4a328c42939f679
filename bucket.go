package parallellist

import (
	"fmt"

	"golang.org/x/sys/cpu"
)

// bucket is one worker-exclusive append-only buffer. The slice header is
// padded to its own cache line so writers on neighbouring slots never
// contend on the same line.
type bucket[T any] struct {
	items []T
	_     cpu.CacheLinePad
}

// add appends v, growing the bucket first when it is full.
// Must only be called by the worker owning the bucket.
func (b *bucket[T]) add(v T, alloc Allocator[T]) {
	n := len(b.items)
	if n == cap(b.items) {
		b.grow(n+1, alloc)
	}
	b.items = b.items[:n+1]
	b.items[n] = v
}

// addSlice appends vs with a single bulk copy.
func (b *bucket[T]) addSlice(vs []T, alloc Allocator[T]) {
	n := len(b.items)
	need := n + len(vs)
	if need > cap(b.items) {
		b.grow(need, alloc)
	}
	b.items = b.items[:need]
	copy(b.items[n:], vs)
}

// grow moves the bucket into an allocation of at least need elements,
// doubling the current capacity. The old allocation is released through the
// same allocator.
func (b *bucket[T]) grow(need int, alloc Allocator[T]) {
	newCap := max(2*cap(b.items), need, 1)
	buf := alloc.Allocate(newCap)
	buf = buf[:len(b.items)]
	copy(buf, b.items)

	if cap(b.items) > 0 {
		if err := alloc.Free(b.items); err != nil {
			panic(fmt.Errorf("release bucket after growth: %w", err))
		}
	}
	b.items = buf
}

// release hands the bucket's memory back to alloc and empties it.
func (b *bucket[T]) release(alloc Allocator[T]) error {
	var err error
	if cap(b.items) > 0 {
		err = alloc.Free(b.items)
	}
	b.items = nil
	return err
}
