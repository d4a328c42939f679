package parallellist

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	randv2 "math/rand/v2"
	"testing"

	"github.com/Fire-Aalt/parallellist/jobs"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// maxTestSlots caps how many slots the parallel tests fan out to.
const maxTestSlots = 32

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// testSlotCount returns the number of slots parallel tests write to.
func testSlotCount() int {
	return min(jobs.ThreadIndexCount(), maxTestSlots)
}

// newTestList creates a heap-backed list closed at test cleanup.
func newTestList[T any](t testing.TB, initialCapacity int) *List[T] {
	t.Helper()
	l, err := New[T](initialCapacity, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if l.IsCreated() {
			if err := l.Close(); err != nil {
				t.Error(err)
			}
		}
	})
	return l
}

func newTestScheduler(t testing.TB) *jobs.Scheduler {
	t.Helper()
	s, err := jobs.New()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// assertUniqueContiguous checks that values holds every integer of
// [offset, offset+count) exactly once, in any order.
func assertUniqueContiguous(t testing.TB, values []int, offset, count int) {
	t.Helper()
	if len(values) != count {
		t.Fatalf("got %d values, want %d", len(values), count)
	}
	seen := make([]bool, count)
	for _, v := range values {
		if v < offset || v >= offset+count {
			t.Fatalf("value %d outside [%d, %d)", v, offset, offset+count)
		}
		if seen[v-offset] {
			t.Fatalf("duplicate value %d", v)
		}
		seen[v-offset] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("missing value %d", offset+i)
		}
	}
}

// assertBucketLens checks that the first slots buckets each hold want values.
func assertBucketLens[T any](t testing.TB, l *List[T], slots, want int) {
	t.Helper()
	for i := range slots {
		if got := l.BucketLen(i); got != want {
			t.Fatalf("slot %d holds %d values, want %d", i, got, want)
		}
	}
}

// expectPanic runs fn and fails unless it panics with an error wrapping
// target.
func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("expected panic wrapping %v, got %v", target, r)
		}
	}()
	fn()
}

func contiguousRangeSum(start, count int) int64 {
	c := int64(count)
	return c * (2*int64(start) + c - 1) / 2
}

func sum(values []int) int64 {
	var s int64
	for _, v := range values {
		s += int64(v)
	}
	return s
}
