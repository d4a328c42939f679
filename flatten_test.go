package parallellist

import (
	"errors"
	"slices"
	"testing"

	"github.com/Fire-Aalt/parallellist/jobs"
)

func TestCopyToAppends(t *testing.T) {
	l := newTestList[int](t, 0)
	l.ThreadWriter().Bind(0).AddSlice([]int{1, 2, 3})

	dst := []int{-2, -1}
	got := l.CopyTo(dst)
	if !slices.Equal(got, []int{-2, -1, 1, 2, 3}) {
		t.Errorf("CopyTo = %v", got)
	}

	// Room already available: no reallocation.
	dst = make([]int, 1, 16)
	got = l.CopyTo(dst)
	if &got[0] != &dst[0] {
		t.Error("CopyTo reallocated a slice with enough capacity")
	}

	if s := l.ToSlice(); len(s) != 3 || cap(s) != 3 {
		t.Errorf("ToSlice() len %d cap %d", len(s), cap(s))
	}
}

func TestScheduleCopyTo(t *testing.T) {
	sched := newTestScheduler(t)
	l := newTestList[int](t, 0)
	const n = 20000

	write := jobs.Schedule(nil, func() error {
		return ScheduleThreads(t.Context(), sched, l, n, 32, func(w *ThreadWriter[int], i int) error {
			w.Add(i)
			return nil
		})
	})
	var out []int
	if err := l.ScheduleCopyTo(&out, write).Complete(); err != nil {
		t.Fatal(err)
	}
	assertUniqueContiguous(t, out, 0, n)
}

func TestScheduleCopyToDependencyError(t *testing.T) {
	l := newTestList[int](t, 0)
	boom := errors.New("boom")
	failed := jobs.Schedule(nil, func() error { return boom })

	var out []int
	err := l.ScheduleCopyTo(&out, failed).Complete()
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if out != nil {
		t.Errorf("copy ran despite failed dependency: %v", out)
	}
}

func TestMapperRounds(t *testing.T) {
	sched := newTestScheduler(t)
	m, err := NewMapper[int](8, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	for round := range 3 {
		n := 1000 * (round + 1)
		write := jobs.Schedule(nil, func() error {
			return ScheduleThreads(t.Context(), sched, m.List, n, 8, func(w *ThreadWriter[int], i int) error {
				w.Add(i)
				return nil
			})
		})
		if err := m.ScheduleFlush(write).Complete(); err != nil {
			t.Fatal(err)
		}
		assertUniqueContiguous(t, m.Out, 0, n)

		// Flush appends.
		if got := m.Flush(); len(got) != 2*n {
			t.Errorf("round %d: second flush len %d, want %d", round, len(got), 2*n)
		}
		m.Clear()
		if len(m.Out) != 0 || m.List.Len() != 0 {
			t.Fatalf("round %d: Clear left %d/%d values", round, len(m.Out), m.List.Len())
		}
	}
}
