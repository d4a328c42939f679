package parallellist

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	streamerrors "github.com/Fire-Aalt/parallellist/errors"
	"github.com/Fire-Aalt/parallellist/internal/debug"
	"github.com/Fire-Aalt/parallellist/jobs"
)

// maxBucketBytes is the largest initial bucket the constructor accepts.
const maxBucketBytes = math.MaxInt32

// List is a per-worker bucketed append-only list.
//
// It owns one bucket per worker slot (jobs.ThreadIndexCount() of them).
// During a dispatch each worker appends only to the bucket of its own slot,
// which is what makes the write path free of locks and atomics. Reading
// (CopyTo, Enumerator, ChunkReader, ThreadReader, Len, Stats) and
// maintenance (Clear, SetChunkCount, Close) must only happen when no writer
// is active, i.e. after the dispatch barrier.
//
// Usage:
//
//	list, err := parallellist.New[int](64, nil)
//	if err != nil { return err }
//	defer list.Close()
//
//	err = parallellist.ScheduleThreads(ctx, sched, list, n, 1,
//	    func(w *parallellist.ThreadWriter[int], i int) error {
//	        w.Add(i)
//	        return nil
//	    })
//	if err != nil { return err }
//	out := list.CopyTo(nil)
type List[T any] struct {
	buckets []bucket[T]
	alloc   Allocator[T]

	// Chunk bookkeeping, valid once SetChunkCount has been called.
	ranges  []chunkRange
	chunked bool
}

// New creates a list whose buckets are pre-sized to initialCapacity
// elements. A capacity of 0 defers allocation to the first write of each
// bucket. A nil alloc selects HeapAllocator.
func New[T any](initialCapacity int, alloc Allocator[T]) (*List[T], error) {
	if initialCapacity < 0 {
		return nil, fmt.Errorf("%w: got %d", streamerrors.ErrInvalidCapacity, initialCapacity)
	}
	var z T
	if size := int(unsafe.Sizeof(z)); size > 0 && initialCapacity > maxBucketBytes/size {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", streamerrors.ErrCapacityOverflow, initialCapacity, size)
	}
	if alloc == nil {
		alloc = HeapAllocator[T]{}
	}

	l := &List[T]{
		buckets: make([]bucket[T], jobs.ThreadIndexCount()),
		alloc:   alloc,
	}
	if initialCapacity > 0 {
		for i := range l.buckets {
			l.buckets[i].items = alloc.Allocate(initialCapacity)
		}
	}
	return l, nil
}

// Close releases every bucket through the list's allocator. It must be
// called exactly once, when no writer is active; the list is unusable
// afterwards.
func (l *List[T]) Close() error {
	debug.Check(l.buckets != nil, func() error { return streamerrors.ErrDisposed })

	var errs []error
	for i := range l.buckets {
		if err := l.buckets[i].release(l.alloc); err != nil {
			errs = append(errs, fmt.Errorf("bucket %d: %w", i, err))
		}
	}
	l.buckets = nil
	l.ranges = nil
	l.chunked = false
	return errors.Join(errs...)
}

// IsCreated reports whether the list has not been closed yet.
func (l *List[T]) IsCreated() bool {
	return l != nil && l.buckets != nil
}

// Clear empties every bucket while keeping its capacity, and drops the
// chunk ranges.
func (l *List[T]) Clear() {
	for i := range l.buckets {
		l.buckets[i].items = l.buckets[i].items[:0]
	}
	clear(l.ranges)
	l.ranges = l.ranges[:0]
	l.chunked = false
}

// SlotCount returns the number of buckets, jobs.ThreadIndexCount().
func (l *List[T]) SlotCount() int {
	return len(l.buckets)
}

// Len returns the number of values across all buckets. It walks every
// bucket and is meant for diagnostics and sizing, not hot loops.
func (l *List[T]) Len() int {
	n := 0
	for i := range l.buckets {
		n += len(l.buckets[i].items)
	}
	return n
}

// BucketLen returns the number of values in the bucket of slot.
func (l *List[T]) BucketLen(slot int) int {
	l.checkSlot(slot)
	return len(l.buckets[slot].items)
}

// BucketCap returns the capacity of the bucket of slot.
func (l *List[T]) BucketCap(slot int) int {
	l.checkSlot(slot)
	return cap(l.buckets[slot].items)
}

// Bucket returns the values of slot. The slice aliases the bucket and is
// only valid until the next write, Clear or Close.
func (l *List[T]) Bucket(slot int) []T {
	l.checkSlot(slot)
	return l.buckets[slot].items
}

// BucketOffset returns the position the first value of slot takes in the
// flattened output: the number of values in all lower slots.
func (l *List[T]) BucketOffset(slot int) int {
	l.checkSlot(slot)
	n := 0
	for i := range slot {
		n += len(l.buckets[i].items)
	}
	return n
}

// Offsets appends the flattened start offset of every bucket to dst[:0] and
// returns it together with the total number of values.
func (l *List[T]) Offsets(dst []int) ([]int, int) {
	dst = dst[:0]
	total := 0
	for i := range l.buckets {
		dst = append(dst, total)
		total += len(l.buckets[i].items)
	}
	return dst, total
}

// checkSlot validates a slot index in debug builds.
func (l *List[T]) checkSlot(slot int) {
	debug.Check(uint(slot) < uint(len(l.buckets)), func() error {
		return fmt.Errorf("%w: %d not in [0, %d)", streamerrors.ErrSlotOutOfRange, slot, len(l.buckets))
	})
}
