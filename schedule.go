package parallellist

import (
	"context"

	"github.com/Fire-Aalt/parallellist/jobs"
)

// ScheduleThreads runs fn for every index in [0, n) on s, in batches of
// batch indices. Each worker goroutine gets its own ThreadWriter bound to
// the worker's slot, so fn may call w.Add without further coordination. The
// list may be read once ScheduleThreads returns.
func ScheduleThreads[T any](ctx context.Context, s *jobs.Scheduler, l *List[T], n, batch int,
	fn func(w *ThreadWriter[T], index int) error) error {
	writers := make([]*ThreadWriter[T], s.Workers())
	for i := range writers {
		writers[i] = l.ThreadWriter().Bind(i)
	}
	return s.For(ctx, n, batch, func(worker, index int) error {
		return fn(writers[worker], index)
	})
}

// ScheduleChunks runs fn once per chunk in [0, l.ChunkCount()) on s, with
// the chunk's write window opened before and closed after fn. When there
// are no more chunks than slots, chunk c writes into bucket c; otherwise
// each chunk writes into the bucket of the worker running it.
func ScheduleChunks[T any](ctx context.Context, s *jobs.Scheduler, l *List[T],
	fn func(w *ChunkWriter[T], chunk int) error) error {
	perWorkerSlot := l.ChunkCount() > l.SlotCount()
	writers := make([]*ChunkWriter[T], s.Workers())
	for i := range writers {
		writers[i] = l.ChunkWriter()
		if perWorkerSlot {
			writers[i].SetManualThreadIndex(i)
		}
	}
	return s.For(ctx, l.ChunkCount(), 1, func(worker, chunk int) error {
		w := writers[worker]
		w.BeginForEachChunk(chunk)
		defer w.EndForEachChunk()
		return fn(w, chunk)
	})
}
