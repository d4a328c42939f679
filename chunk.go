package parallellist

import (
	"fmt"
	"slices"

	streamerrors "github.com/Fire-Aalt/parallellist/errors"
	"github.com/Fire-Aalt/parallellist/internal/debug"
)

type chunkState uint8

const (
	chunkUnwritten chunkState = iota
	chunkOpen
	chunkClosed
)

// chunkRange records where a chunk's values live: bucket listIndex,
// positions [start, start+count).
type chunkRange struct {
	listIndex int
	start     int
	count     int
	state     chunkState
}

// SetChunkCount allocates the bookkeeping for chunkCount chunks. It must be
// called before chunk writers are used in a round; Clear undoes it.
func (l *List[T]) SetChunkCount(chunkCount int) error {
	if chunkCount < 0 {
		return fmt.Errorf("%w: got %d", streamerrors.ErrInvalidChunkCount, chunkCount)
	}
	l.ranges = slices.Grow(l.ranges[:0], chunkCount)[:chunkCount]
	clear(l.ranges)
	l.chunked = true
	return nil
}

// ChunkCount returns the value of the last SetChunkCount, or 0 after Clear.
func (l *List[T]) ChunkCount() int {
	return len(l.ranges)
}

func (l *List[T]) checkChunk(chunk int) {
	debug.Check(l.chunked, func() error { return streamerrors.ErrChunksNotAllocated })
	debug.Check(uint(chunk) < uint(len(l.ranges)), func() error {
		return fmt.Errorf("%w: %d not in [0, %d)", streamerrors.ErrChunkOutOfRange, chunk, len(l.ranges))
	})
}

// ChunkWriter writes chunks: logical units of work that each claim one
// bucket for the duration of their write window. By default chunk c writes
// into bucket c, so chunks may run on any worker as long as each chunk runs
// once. With SetManualThreadIndex the chunk writes into the given slot
// instead, which allows more chunks than slots; the caller must then ensure
// no two chunks sharing a slot are open at the same time.
//
// Like ThreadWriter, a ChunkWriter belongs to a single worker goroutine.
type ChunkWriter[T any] struct {
	_      noCopy
	list   *List[T]
	manual int
	chunk  int
	bucket *bucket[T]
}

// ChunkWriter returns a writer with no manual slot and no open chunk.
func (l *List[T]) ChunkWriter() *ChunkWriter[T] {
	return &ChunkWriter[T]{list: l, manual: -1, chunk: -1}
}

// SetManualThreadIndex makes the following chunks write into slot. A
// negative slot restores the default of writing chunk c into bucket c.
func (w *ChunkWriter[T]) SetManualThreadIndex(slot int) {
	if slot < 0 {
		w.manual = -1
		return
	}
	w.list.checkSlot(slot)
	w.manual = slot
}

// ThreadIndex returns the manual slot, or -1 when chunks write into the
// bucket matching their index.
func (w *ChunkWriter[T]) ThreadIndex() int {
	return w.manual
}

// BeginForEachChunk opens the write window of chunk. Each chunk is written at
// most once per round, and every Begin must be matched by EndForEachChunk
// before the chunk is read.
func (w *ChunkWriter[T]) BeginForEachChunk(chunk int) {
	l := w.list
	l.checkChunk(chunk)
	debug.Check(w.chunk < 0, func() error {
		return fmt.Errorf("%w: chunk %d is open", streamerrors.ErrChunkAlreadyOpen, w.chunk)
	})
	debug.Check(l.ranges[chunk].state == chunkUnwritten, func() error {
		return fmt.Errorf("%w: chunk %d", streamerrors.ErrChunkRewritten, chunk)
	})

	slot := chunk
	if w.manual >= 0 {
		slot = w.manual
	}
	l.checkSlot(slot)

	w.chunk = chunk
	w.bucket = &l.buckets[slot]
	l.ranges[chunk] = chunkRange{
		listIndex: slot,
		start:     len(w.bucket.items),
		state:     chunkOpen,
	}
}

// Add appends v to the open chunk.
func (w *ChunkWriter[T]) Add(v T) {
	debug.Check(w.chunk >= 0, func() error { return streamerrors.ErrChunkNotOpen })
	w.bucket.add(v, w.list.alloc)
}

// AddSlice appends all of vs to the open chunk with one bulk copy.
func (w *ChunkWriter[T]) AddSlice(vs []T) {
	debug.Check(w.chunk >= 0, func() error { return streamerrors.ErrChunkNotOpen })
	w.bucket.addSlice(vs, w.list.alloc)
}

// EndForEachChunk closes the open chunk and records its element count.
func (w *ChunkWriter[T]) EndForEachChunk() {
	debug.Check(w.chunk >= 0, func() error { return streamerrors.ErrChunkNotOpen })
	r := &w.list.ranges[w.chunk]
	r.count = len(w.bucket.items) - r.start
	r.state = chunkClosed
	w.chunk = -1
	w.bucket = nil
}

// WriteChunk opens chunk, runs fn and closes the chunk again, even when fn
// panics.
func (w *ChunkWriter[T]) WriteChunk(chunk int, fn func(w *ChunkWriter[T])) {
	w.BeginForEachChunk(chunk)
	defer w.EndForEachChunk()
	fn(w)
}

// ChunkReader reads back the values of individual chunks after the writers
// have finished.
type ChunkReader[T any] struct {
	list  *List[T]
	items []T
	pos   int
}

// ChunkReader returns a reader. Call BeginForEachChunk before Read.
func (l *List[T]) ChunkReader() *ChunkReader[T] {
	return &ChunkReader[T]{list: l}
}

// BeginForEachChunk positions the reader at the first value of chunk and
// returns the number of values written to it. A chunk that was never opened
// reads as empty.
func (r *ChunkReader[T]) BeginForEachChunk(chunk int) int {
	r.items = r.list.chunkItems(chunk)
	r.pos = 0
	return len(r.items)
}

// Read returns a pointer to the next value of the chunk and advances. The
// pointer aliases the bucket.
func (r *ChunkReader[T]) Read() *T {
	debug.Check(r.pos < len(r.items), func() error {
		return fmt.Errorf("%w: %d values", streamerrors.ErrReadPastChunk, len(r.items))
	})
	v := &r.items[r.pos]
	r.pos++
	return v
}

// Reset rewinds the reader to the first value of chunk.
func (r *ChunkReader[T]) Reset(chunk int) {
	r.BeginForEachChunk(chunk)
}

// Remaining returns the number of values left to Read in the current chunk.
func (r *ChunkReader[T]) Remaining() int {
	return len(r.items) - r.pos
}

// ListIndex returns the bucket chunk wrote into.
func (r *ChunkReader[T]) ListIndex(chunk int) int {
	r.list.checkChunk(chunk)
	return r.list.ranges[chunk].listIndex
}

// Chunk returns the values of chunk. The slice aliases the bucket.
func (r *ChunkReader[T]) Chunk(chunk int) []T {
	return r.list.chunkItems(chunk)
}

// Offset returns the position of the chunk's first value in the flattened
// output of CopyTo.
func (r *ChunkReader[T]) Offset(chunk int) int {
	r.list.checkChunk(chunk)
	cr := r.list.ranges[chunk]
	return r.list.BucketOffset(cr.listIndex) + cr.start
}

func (l *List[T]) chunkItems(chunk int) []T {
	l.checkChunk(chunk)
	cr := l.ranges[chunk]
	debug.Check(cr.state != chunkOpen, func() error {
		return fmt.Errorf("%w: chunk %d", streamerrors.ErrChunkIncomplete, chunk)
	})
	return l.buckets[cr.listIndex].items[cr.start : cr.start+cr.count]
}
