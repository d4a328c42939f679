// Bench measures how fast values produced by parallel workers can be
// collected into one slice, comparing the bucketed ParallelList against a
// mutex-guarded slice and a channel collector.
//
// Usage:
//
//	go run ./cmd/bench -writes 10000000 -gen murmur3 -allocator mmap
//
// Every Config field is also a flag (and an environment variable), see
// -help.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/fulldump/goconfig"
	"github.com/pkg/profile"

	"github.com/Fire-Aalt/parallellist/jobs"
)

type Config struct {
	Writes     int    `usage:"number of values written per round"`
	Workers    int    `usage:"number of workers, 0 for one per slot"`
	Batch      int    `usage:"indices claimed per batch"`
	Capacity   int    `usage:"initial capacity per bucket"`
	Rounds     int    `usage:"rounds per strategy"`
	Strategies string `usage:"comma separated: list,chunks,mutex,channel"`
	Allocator  string `usage:"bucket memory: heap | mmap"`
	Gen        string `usage:"value generator: seq | murmur3 | xxh3"`
	Format     string `usage:"output format: table | json"`
	Profile    string `usage:"profile the run: none | cpu | mem"`
	ProfileDir string `usage:"directory for profile output"`
	Report     bool   `usage:"print the bucket report of the last list round"`
}

func main() {
	c := Config{
		Writes:     10_000_000,
		Batch:      4096,
		Capacity:   0,
		Rounds:     5,
		Strategies: "list,chunks,mutex,channel",
		Allocator:  "heap",
		Gen:        "murmur3",
		Format:     "table",
		Profile:    "none",
		ProfileDir: ".",
	}
	goconfig.Read(&c)

	if c.Writes <= 0 || c.Rounds <= 0 {
		log.Fatalf("writes and rounds must be positive, got %d and %d", c.Writes, c.Rounds)
	}

	gen, err := newGenerator(c.Gen)
	if err != nil {
		log.Fatal(err)
	}
	sched, err := jobs.New(jobs.WithWorkers(c.Workers))
	if err != nil {
		log.Fatal(err)
	}

	names, err := parseStrategies(c.Strategies)
	if err != nil {
		log.Fatal(err)
	}
	profiler, err := newProfiler(c)
	if err != nil {
		log.Fatal(err)
	}

	// run returns before any exit so the profile is flushed.
	if err := run(context.Background(), c, sched, gen, names, profiler); err != nil {
		log.Fatal(err)
	}
}

// parseStrategies splits the comma separated strategy list and rejects
// unknown names.
func parseStrategies(list string) ([]string, error) {
	var names []string
	for name := range strings.SplitSeq(list, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if _, ok := strategies[name]; !ok {
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
		names = append(names, name)
	}
	return names, nil
}

// newProfiler returns the profile.Start options for c.Profile, or nil when
// profiling is off.
func newProfiler(c Config) ([]func(*profile.Profile), error) {
	var mode func(*profile.Profile)
	switch strings.ToLower(c.Profile) {
	case "none", "":
		return nil, nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	default:
		return nil, fmt.Errorf("unknown profile %q", c.Profile)
	}
	return []func(*profile.Profile){mode, profile.ProfilePath(c.ProfileDir), profile.NoShutdownHook}, nil
}

func run(ctx context.Context, c Config, sched *jobs.Scheduler, gen generator, names []string, profiler []func(*profile.Profile)) error {
	if profiler != nil {
		defer profile.Start(profiler...).Stop()
	}

	fmt.Fprintf(os.Stderr, "Writing %d values x %d rounds on %d workers (%d slots, GOMAXPROCS %d)...\n",
		c.Writes, c.Rounds, sched.Workers(), jobs.ThreadIndexCount(), runtime.GOMAXPROCS(0))

	var results []result
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "Running %s...\n", name)
		r, err := measure(ctx, name, strategies[name], sched, gen, c)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		results = append(results, r)
	}

	// Every strategy collects the same multiset of values.
	sums := make([]uint64, 0, len(results))
	for _, r := range results {
		sums = append(sums, r.Checksum)
	}
	if len(slices.Compact(sums)) > 1 {
		return fmt.Errorf("strategies disagree on the collected values: %v", sums)
	}

	return writeResults(os.Stdout, c.Format, results)
}
