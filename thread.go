package parallellist

import (
	streamerrors "github.com/Fire-Aalt/parallellist/errors"
	"github.com/Fire-Aalt/parallellist/internal/debug"
)

// ThreadWriter appends to the bucket of one worker slot.
//
// A writer is created per worker for the duration of one dispatch and must
// not be shared between goroutines. Two writers bound to different slots may
// append concurrently; two writers bound to the same slot must not. The
// scheduler is responsible for that exclusivity, the writer does not check
// it.
type ThreadWriter[T any] struct {
	_      noCopy
	list   *List[T]
	slot   int
	bucket *bucket[T]
}

// ThreadWriter returns an unbound writer. Call Bind before Add, or use
// AddAt.
func (l *List[T]) ThreadWriter() *ThreadWriter[T] {
	return &ThreadWriter[T]{list: l, slot: -1}
}

// Bind associates the writer with slot and returns it.
func (w *ThreadWriter[T]) Bind(slot int) *ThreadWriter[T] {
	w.list.checkSlot(slot)
	w.slot = slot
	w.bucket = &w.list.buckets[slot]
	return w
}

// Slot returns the bound slot, or -1 for an unbound writer.
func (w *ThreadWriter[T]) Slot() int {
	return w.slot
}

// Add appends v to the bound bucket.
func (w *ThreadWriter[T]) Add(v T) {
	debug.Check(w.bucket != nil, func() error { return streamerrors.ErrWriterNotBound })
	w.bucket.add(v, w.list.alloc)
}

// AddSlice appends all of vs to the bound bucket with one bulk copy. It has
// the same effect as calling Add for each value.
func (w *ThreadWriter[T]) AddSlice(vs []T) {
	debug.Check(w.bucket != nil, func() error { return streamerrors.ErrWriterNotBound })
	w.bucket.addSlice(vs, w.list.alloc)
}

// AddAt appends v to the bucket of slot instead of the bound one. The caller
// must own slot for the current dispatch.
func (w *ThreadWriter[T]) AddAt(v T, slot int) {
	w.list.checkSlot(slot)
	w.list.buckets[slot].add(v, w.list.alloc)
}

// ThreadReader reads the values of one bucket sequentially.
type ThreadReader[T any] struct {
	list  *List[T]
	items []T
	pos   int
}

// ThreadReader returns a reader. Call Begin before Read.
func (l *List[T]) ThreadReader() *ThreadReader[T] {
	return &ThreadReader[T]{list: l}
}

// Begin positions the reader at the first value of slot and returns the
// number of values in it.
func (r *ThreadReader[T]) Begin(slot int) int {
	r.list.checkSlot(slot)
	r.items = r.list.buckets[slot].items
	r.pos = 0
	return len(r.items)
}

// Read returns a pointer to the next value and advances. The pointer aliases
// the bucket.
func (r *ThreadReader[T]) Read() *T {
	debug.Check(r.pos < len(r.items), func() error { return streamerrors.ErrReadPastChunk })
	v := &r.items[r.pos]
	r.pos++
	return v
}

// Remaining returns the number of values left to Read.
func (r *ThreadReader[T]) Remaining() int {
	return len(r.items) - r.pos
}
