package parallellist

import (
	"slices"
	"testing"
)

// fillSparse writes n values into every other slot, leaving gaps of empty
// buckets for the enumerator to skip.
func fillSparse(l *List[int], n int) {
	v := 0
	for slot := 0; slot < l.SlotCount(); slot += 2 {
		w := l.ThreadWriter().Bind(slot)
		for range n {
			w.Add(v)
			v++
		}
	}
}

func TestEnumeratorVisitsEveryValue(t *testing.T) {
	l := newTestList[int](t, 0)
	fillSparse(l, 33)
	want := l.CopyTo(nil)

	e := l.Enumerator()
	var got []int
	for e.MoveNext() {
		got = append(got, e.Current())
	}
	if !slices.Equal(got, want) {
		t.Fatalf("enumerated %d values, want %d in flatten order", len(got), len(want))
	}
	if e.MoveNext() {
		t.Error("MoveNext after end returned true")
	}
	if e.Current() != 0 {
		t.Errorf("Current() after end = %d, want zero value", e.Current())
	}
}

func TestEnumeratorReset(t *testing.T) {
	l := newTestList[int](t, 0)
	fillSparse(l, 5)
	want := l.CopyTo(nil)

	e := l.Enumerator()
	for range len(want) / 2 {
		e.MoveNext()
	}
	e.Reset()

	var got []int
	for e.MoveNext() {
		got = append(got, e.Current())
	}
	if !slices.Equal(got, want) {
		t.Errorf("after Reset got %v, want %v", got, want)
	}
}

func TestEnumeratorFirstValueAtSlotZero(t *testing.T) {
	l := newTestList[int](t, 0)
	l.ThreadWriter().Bind(0).Add(11)

	e := l.Enumerator()
	if !e.MoveNext() || e.Current() != 11 {
		t.Fatalf("first value = %d, want 11", e.Current())
	}
	if e.MoveNext() {
		t.Error("enumerated a second value")
	}
}

func TestAllIterator(t *testing.T) {
	l := newTestList[int](t, 0)
	fillSparse(l, 7)
	want := l.CopyTo(nil)

	if got := slices.Collect(l.All()); !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}

	// Early break stops the iterator.
	n := 0
	for range l.All() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d values before break", n)
	}
}

func TestBucketsIterator(t *testing.T) {
	l := newTestList[int](t, 0)
	fillSparse(l, 4)

	prev := -1
	total := 0
	for slot, values := range l.Buckets() {
		if slot <= prev {
			t.Fatalf("slot %d after %d", slot, prev)
		}
		if slot%2 != 0 || len(values) != 4 {
			t.Errorf("slot %d yielded %d values", slot, len(values))
		}
		prev = slot
		total += len(values)
	}
	if total != l.Len() {
		t.Errorf("Buckets() covered %d values, want %d", total, l.Len())
	}
}
