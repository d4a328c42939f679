package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/Fire-Aalt/parallellist"
	"github.com/Fire-Aalt/parallellist/jobs"
)

const genSeed = 0x1234

// generator produces the value written for index i.
type generator func(i int) uint64

func newGenerator(name string) (generator, error) {
	switch strings.ToLower(name) {
	case "seq":
		return func(i int) uint64 { return uint64(i) }, nil
	case "murmur3":
		return func(i int) uint64 {
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(i))
			return murmur3.Sum64WithSeed(b[:], genSeed)
		}, nil
	case "xxh3":
		return func(i int) uint64 {
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(i))
			return xxh3.HashSeed(b[:], genSeed)
		}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q (use seq, murmur3 or xxh3)", name)
	}
}

// runner collects c.Writes generated values per round. Round returns an
// order-independent checksum of what it collected.
type runner interface {
	Round(ctx context.Context) (uint64, error)
	Close() error
}

// bucketBytesReporter is implemented by runners whose memory is tracked.
type bucketBytesReporter interface {
	BucketBytes() int64
}

type strategyFunc func(sched *jobs.Scheduler, gen generator, c Config) (runner, error)

var strategies = map[string]strategyFunc{
	"list":    newListRunner,
	"chunks":  newChunkRunner,
	"mutex":   newMutexRunner,
	"channel": newChannelRunner,
}

func checksum(values []uint64) uint64 {
	var s uint64
	for _, v := range values {
		s += v
	}
	return s
}

func newAllocator(name string) (*parallellist.TrackingAllocator[uint64], error) {
	switch strings.ToLower(name) {
	case "heap":
		return parallellist.NewTrackingAllocator[uint64](nil), nil
	case "mmap":
		a, err := parallellist.NewMmapAllocator[uint64]()
		if err != nil {
			return nil, err
		}
		return parallellist.NewTrackingAllocator[uint64](a), nil
	default:
		return nil, fmt.Errorf("unknown allocator %q (use heap or mmap)", name)
	}
}

// listRunner writes through bound ThreadWriters and flattens into a reused
// output slice.
type listRunner struct {
	sched *jobs.Scheduler
	gen   generator
	cfg   Config
	alloc *parallellist.TrackingAllocator[uint64]
	m     *parallellist.Mapper[uint64]
}

func newListRunner(sched *jobs.Scheduler, gen generator, c Config) (runner, error) {
	alloc, err := newAllocator(c.Allocator)
	if err != nil {
		return nil, err
	}
	m, err := parallellist.NewMapper[uint64](c.Capacity, alloc)
	if err != nil {
		return nil, err
	}
	return &listRunner{sched: sched, gen: gen, cfg: c, alloc: alloc, m: m}, nil
}

func (r *listRunner) Round(ctx context.Context) (uint64, error) {
	r.m.Clear()
	write := jobs.Schedule(nil, func() error {
		return parallellist.ScheduleThreads(ctx, r.sched, r.m.List, r.cfg.Writes, r.cfg.Batch,
			func(w *parallellist.ThreadWriter[uint64], i int) error {
				w.Add(r.gen(i))
				return nil
			})
	})
	if err := r.m.ScheduleFlush(write).Complete(); err != nil {
		return 0, err
	}
	return checksum(r.m.Out), nil
}

func (r *listRunner) BucketBytes() int64 { return r.alloc.LiveBytes() }

func (r *listRunner) Close() error {
	if r.cfg.Report {
		if err := r.m.List.Report(os.Stderr); err != nil {
			return err
		}
	}
	return r.m.Close()
}

// chunkRunner splits the writes into fixed ranges written through
// ChunkWriters.
type chunkRunner struct {
	sched  *jobs.Scheduler
	gen    generator
	cfg    Config
	alloc  *parallellist.TrackingAllocator[uint64]
	list   *parallellist.List[uint64]
	out    []uint64
	chunks int
}

func newChunkRunner(sched *jobs.Scheduler, gen generator, c Config) (runner, error) {
	alloc, err := newAllocator(c.Allocator)
	if err != nil {
		return nil, err
	}
	l, err := parallellist.New[uint64](c.Capacity, alloc)
	if err != nil {
		return nil, err
	}
	batch := max(c.Batch, 1)
	return &chunkRunner{
		sched:  sched,
		gen:    gen,
		cfg:    c,
		alloc:  alloc,
		list:   l,
		chunks: (c.Writes + batch - 1) / batch,
	}, nil
}

func (r *chunkRunner) Round(ctx context.Context) (uint64, error) {
	r.list.Clear()
	if err := r.list.SetChunkCount(r.chunks); err != nil {
		return 0, err
	}
	batch := max(r.cfg.Batch, 1)
	err := parallellist.ScheduleChunks(ctx, r.sched, r.list, func(w *parallellist.ChunkWriter[uint64], chunk int) error {
		end := min((chunk+1)*batch, r.cfg.Writes)
		for i := chunk * batch; i < end; i++ {
			w.Add(r.gen(i))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.out = r.list.CopyTo(r.out[:0])
	return checksum(r.out), nil
}

func (r *chunkRunner) BucketBytes() int64 { return r.alloc.LiveBytes() }

func (r *chunkRunner) Close() error { return r.list.Close() }

// mutexRunner appends every value to one shared slice under a mutex.
type mutexRunner struct {
	sched *jobs.Scheduler
	gen   generator
	cfg   Config
	mu    sync.Mutex
	out   []uint64
}

func newMutexRunner(sched *jobs.Scheduler, gen generator, c Config) (runner, error) {
	return &mutexRunner{sched: sched, gen: gen, cfg: c, out: make([]uint64, 0, c.Capacity)}, nil
}

func (r *mutexRunner) Round(ctx context.Context) (uint64, error) {
	r.out = r.out[:0]
	err := r.sched.For(ctx, r.cfg.Writes, r.cfg.Batch, func(_, i int) error {
		v := r.gen(i)
		r.mu.Lock()
		r.out = append(r.out, v)
		r.mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return checksum(r.out), nil
}

func (r *mutexRunner) Close() error { return nil }

// channelRunner sends every value to a single collecting goroutine.
type channelRunner struct {
	sched *jobs.Scheduler
	gen   generator
	cfg   Config
	out   []uint64
}

func newChannelRunner(sched *jobs.Scheduler, gen generator, c Config) (runner, error) {
	return &channelRunner{sched: sched, gen: gen, cfg: c, out: make([]uint64, 0, c.Capacity)}, nil
}

func (r *channelRunner) Round(ctx context.Context) (uint64, error) {
	ch := make(chan uint64, 4096)
	done := make(chan struct{})
	r.out = r.out[:0]
	go func() {
		defer close(done)
		for v := range ch {
			r.out = append(r.out, v)
		}
	}()
	err := r.sched.For(ctx, r.cfg.Writes, r.cfg.Batch, func(_, i int) error {
		ch <- r.gen(i)
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return 0, err
	}
	return checksum(r.out), nil
}

func (r *channelRunner) Close() error { return nil }
