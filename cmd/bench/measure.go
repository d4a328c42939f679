package main

import (
	"context"
	"runtime"
	"runtime/metrics"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Fire-Aalt/parallellist/jobs"
)

type result struct {
	Strategy      string  `json:"strategy"`
	Writes        int     `json:"writes"`
	Rounds        int     `json:"rounds"`
	Workers       int     `json:"workers"`
	BestNanos     int64   `json:"best_ns"`
	AvgNanos      int64   `json:"avg_ns"`
	MValuesPerSec float64 `json:"mvalues_per_sec"`
	PeakHeapMB    float64 `json:"peak_heap_mb"`
	PeakRSSMB     float64 `json:"peak_rss_mb"`
	BucketMB      float64 `json:"bucket_mb,omitzero"`
	Checksum      uint64  `json:"checksum"`
}

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

func storeMax(v *atomic.Uint64, x uint64) {
	for {
		old := v.Load()
		if x <= old || v.CompareAndSwap(old, x) {
			return
		}
	}
}

// measure runs c.Rounds rounds of one strategy while sampling peak memory
// every 10ms.
func measure(ctx context.Context, name string, newRunner strategyFunc, sched *jobs.Scheduler, gen generator, c Config) (result, error) {
	runtime.GC()
	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)
	baselineRSS := getMaxRSS()

	// runtime/metrics avoids the stop-the-world pause of ReadMemStats.
	var peakAlloc, peakRSS atomic.Uint64
	peakAlloc.Store(baseline.Alloc)
	peakRSS.Store(baselineRSS)
	done := make(chan struct{})
	sampled := make(chan struct{})
	go func() {
		defer close(sampled)
		samples := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				storeMax(&peakAlloc, samples[0].Value.Uint64())
				storeMax(&peakRSS, getMaxRSS())
			}
		}
	}()

	res := result{Strategy: name, Writes: c.Writes, Rounds: c.Rounds, Workers: sched.Workers()}
	err := func() error {
		r, err := newRunner(sched, gen, c)
		if err != nil {
			return err
		}
		var total time.Duration
		for round := range c.Rounds {
			start := time.Now()
			sum, err := r.Round(ctx)
			elapsed := time.Since(start)
			if err != nil {
				_ = r.Close() // the round error is the one worth reporting
				return err
			}
			total += elapsed
			if round == 0 || elapsed.Nanoseconds() < res.BestNanos {
				res.BestNanos = elapsed.Nanoseconds()
			}
			res.Checksum = sum
		}
		res.AvgNanos = total.Nanoseconds() / int64(c.Rounds)
		if b, ok := r.(bucketBytesReporter); ok {
			res.BucketMB = float64(b.BucketBytes()) / 1_000_000
		}
		return r.Close()
	}()
	close(done)
	<-sampled
	if err != nil {
		return result{}, err
	}

	var final runtime.MemStats
	runtime.ReadMemStats(&final)
	storeMax(&peakAlloc, final.Alloc)
	storeMax(&peakRSS, getMaxRSS())

	res.PeakHeapMB = float64(peakAlloc.Load()-baseline.Alloc) / 1_000_000
	res.PeakRSSMB = float64(peakRSS.Load()-baselineRSS) / 1_000_000
	res.MValuesPerSec = float64(c.Writes) / time.Duration(res.BestNanos).Seconds() / 1_000_000
	return res, nil
}
