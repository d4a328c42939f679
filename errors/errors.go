// Package errors defines all exported error sentinels for the parallellist module.
//
// This is the single source of truth for error values. The root
// parallellist package, the jobs scheduler and the internal packages all
// import from here, so errors.Is checks work across package boundaries.
//
// Precondition violations in the hot write/read path are not returned: in
// debug builds they panic with an error wrapping one of these sentinels, and
// release builds (-tags release) do not check them at all.
package errors

import "errors"

// Construction errors
var (
	ErrInvalidCapacity   = errors.New("parallellist: initial capacity must be >= 0")
	ErrCapacityOverflow  = errors.New("parallellist: capacity * element size exceeds 2147483647 bytes")
	ErrInvalidChunkCount = errors.New("parallellist: chunk count must be >= 0")
	ErrPointerElement    = errors.New("parallellist: element type contains pointers and cannot live off-heap")
)

// Lifecycle errors
var (
	ErrDisposed    = errors.New("parallellist: list is already disposed")
	ErrOutOfMemory = errors.New("parallellist: bucket allocation failed")
)

// Usage errors (debug builds only)
var (
	ErrSlotOutOfRange     = errors.New("parallellist: slot index out of range")
	ErrWriterNotBound     = errors.New("parallellist: thread writer is not bound to a slot")
	ErrChunksNotAllocated = errors.New("parallellist: ranges have not been allocated, call SetChunkCount before writing")
	ErrChunkOutOfRange    = errors.New("parallellist: chunk index out of range")
	ErrChunkAlreadyOpen   = errors.New("parallellist: BeginForEachChunk called while a chunk is open")
	ErrChunkNotOpen       = errors.New("parallellist: no chunk is open")
	ErrChunkIncomplete    = errors.New("parallellist: chunk was opened but never ended")
	ErrChunkRewritten     = errors.New("parallellist: chunk was already written this round")
	ErrReadPastChunk      = errors.New("parallellist: read beyond the recorded element count")
)

// Scheduler errors
var (
	ErrTooManyWorkers = errors.New("parallellist: worker count exceeds thread index count")
	ErrInvalidBatch   = errors.New("parallellist: batch size must be > 0")
)
