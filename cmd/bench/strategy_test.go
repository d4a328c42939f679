package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fire-Aalt/parallellist/jobs"
)

func TestStrategiesAgree(t *testing.T) {
	sched, err := jobs.New()
	if err != nil {
		t.Fatal(err)
	}
	for _, genName := range []string{"seq", "murmur3", "xxh3"} {
		gen, err := newGenerator(genName)
		if err != nil {
			t.Fatal(err)
		}
		c := Config{Writes: 10_000, Batch: 64, Rounds: 2, Allocator: "heap"}

		var want uint64
		for i := range c.Writes {
			want += gen(i)
		}
		for name, newRunner := range strategies {
			r, err := newRunner(sched, gen, c)
			if err != nil {
				t.Fatal(err)
			}
			for round := range c.Rounds {
				got, err := r.Round(context.Background())
				if err != nil {
					t.Fatalf("%s/%s round %d: %v", genName, name, round, err)
				}
				if got != want {
					t.Errorf("%s/%s round %d: checksum %x, want %x", genName, name, round, got, want)
				}
			}
			if err := r.Close(); err != nil {
				t.Errorf("%s/%s: Close: %v", genName, name, err)
			}
		}
	}
}

func TestUnknownOptions(t *testing.T) {
	if _, err := newGenerator("md5"); err == nil {
		t.Error("expected error for unknown generator")
	}
	if _, err := newAllocator("arena"); err == nil {
		t.Error("expected error for unknown allocator")
	}
	if err := writeResults(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteResults(t *testing.T) {
	results := []result{{Strategy: "list", Writes: 10, Rounds: 1, Workers: 2, BestNanos: 1500, AvgNanos: 2000, Checksum: 45}}

	var buf bytes.Buffer
	if err := writeResults(&buf, "json", results); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, `"strategy"`) || !strings.Contains(out, `"list"`) || strings.Contains(out, "bucket_mb") {
		t.Errorf("unexpected json output:\n%s", out)
	}

	buf.Reset()
	if err := writeResults(&buf, "table", results); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "list") {
		t.Errorf("table missing strategy row:\n%s", buf.String())
	}
}

func TestParseStrategies(t *testing.T) {
	names, err := parseStrategies(" List,mutex ")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "list" || names[1] != "mutex" {
		t.Errorf("parseStrategies = %v", names)
	}
	if _, err := parseStrategies("list,heap"); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if _, err := newProfiler(Config{Profile: "block"}); err == nil {
		t.Error("expected error for unknown profile")
	}
}

// TestRunFlushesProfileOnError fails after the measurements, on the output
// format, and checks that the CPU profile was still written out.
func TestRunFlushesProfileOnError(t *testing.T) {
	sched, err := jobs.New()
	if err != nil {
		t.Fatal(err)
	}
	gen, err := newGenerator("seq")
	if err != nil {
		t.Fatal(err)
	}
	c := Config{Writes: 1000, Batch: 64, Rounds: 1, Allocator: "heap", Format: "xml", Profile: "cpu", ProfileDir: t.TempDir()}
	profiler, err := newProfiler(c)
	if err != nil {
		t.Fatal(err)
	}

	if err := run(context.Background(), c, sched, gen, []string{"list"}, profiler); err == nil {
		t.Fatal("expected error for unknown format")
	}
	info, err := os.Stat(filepath.Join(c.ProfileDir, "cpu.pprof"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("cpu profile is empty")
	}
}
