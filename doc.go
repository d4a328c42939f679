// Package parallellist implements a per-worker bucketed append-only list for
// collecting values from many goroutines without locks.
//
// The list owns one bucket per worker slot (see jobs.ThreadIndexCount). A
// scheduler dispatch gives every concurrently running worker a distinct slot,
// each worker appends only to its own bucket, and after the dispatch returns
// a single goroutine flattens the buckets into one slice or enumerates them.
// Because slots are partitioned statically, the write path uses no mutex,
// atomic or CAS; correctness rests on the scheduler never running two
// workers on the same slot at once.
//
// # Basic Usage
//
// Collecting from a parallel loop:
//
//	sched, err := jobs.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	list, err := parallellist.New[int](128, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer list.Close()
//
//	err = parallellist.ScheduleThreads(ctx, sched, list, n, 64,
//	    func(w *parallellist.ThreadWriter[int], i int) error {
//	        if keep(i) {
//	            w.Add(i)
//	        }
//	        return nil
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kept := list.CopyTo(nil)
//
// Writing and reading chunks:
//
//	list.SetChunkCount(numChunks)
//	err = parallellist.ScheduleChunks(ctx, sched, list,
//	    func(w *parallellist.ChunkWriter[int], chunk int) error {
//	        w.Add(chunk)
//	        return nil
//	    })
//	r := list.ChunkReader()
//	for c := range numChunks {
//	    for range r.BeginForEachChunk(c) {
//	        use(*r.Read())
//	    }
//	}
//
// # Validation
//
// Precondition violations (bad slot or chunk index, unbalanced chunk
// windows, reads past a chunk, double Close) panic with an error wrapping a
// sentinel from the errors package. Building with -tags release removes
// these checks from the write and read paths.
//
// # Package Structure
//
//   - Store: list.go (New, Clear, Close, Len, offsets), bucket.go (growth)
//   - Memory: allocator.go (Heap, Tracking), allocator_mmap.go, prefault_*.go
//   - Writers/readers: thread.go (ThreadWriter, ThreadReader), chunk.go (ChunkWriter, ChunkReader)
//   - Consumption: flatten.go (CopyTo, ScheduleCopyTo), enumerator.go (Enumerator, All, Buckets)
//   - Dispatch: schedule.go (ScheduleThreads, ScheduleChunks), mapper.go, jobs/ (scheduler)
//   - Diagnostics: report.go (Stats, Fingerprint, Report)
package parallellist
