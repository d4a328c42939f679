package parallellist

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"

	"github.com/Fire-Aalt/parallellist/internal/unsafecast"
)

func TestStats(t *testing.T) {
	l := newTestList[uint32](t, 8)
	l.ThreadWriter().Bind(0).AddSlice([]uint32{1, 2, 3})

	stats := l.Stats()
	if len(stats) != l.SlotCount() {
		t.Fatalf("len(Stats()) = %d, want %d", len(stats), l.SlotCount())
	}
	s := stats[0]
	if s.Slot != 0 || s.Len != 3 || s.Cap < 8 {
		t.Errorf("stats[0] = %+v", s)
	}
	if want := xxhash.Sum64(unsafecast.Bytes([]uint32{1, 2, 3})); s.Hash != want {
		t.Errorf("stats[0].Hash = %x, want %x", s.Hash, want)
	}
	for _, s := range stats[1:] {
		if s.Len != 0 || s.Hash != xxhash.Sum64(nil) {
			t.Errorf("empty bucket stats = %+v", s)
		}
	}
}

func TestFingerprintDependsOnPlacement(t *testing.T) {
	a := newTestList[int](t, 0)
	b := newTestList[int](t, 0)
	if a.SlotCount() < 2 {
		t.Skip("needs at least two slots")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("empty lists have different fingerprints")
	}

	a.ThreadWriter().Bind(0).AddSlice([]int{1, 2})
	b.ThreadWriter().Bind(0).AddSlice([]int{1, 2})
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal lists have different fingerprints")
	}

	// Same flattened values, different bucket split.
	c := newTestList[int](t, 0)
	c.ThreadWriter().Bind(0).Add(1)
	c.ThreadWriter().Bind(1).Add(2)
	if c.Fingerprint() == a.Fingerprint() {
		t.Error("fingerprint ignores bucket placement")
	}

	b.ThreadWriter().Bind(0).Add(3)
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fingerprint ignores an added value")
	}
}

func TestReport(t *testing.T) {
	l := newTestList[int](t, 0)
	w := l.ThreadWriter().Bind(l.SlotCount() - 1)
	for i := range 12345 {
		w.Add(i)
	}

	var buf bytes.Buffer
	if err := l.Report(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"12345",
		strconv.FormatUint(l.Fingerprint(), 16),
		strconv.FormatUint(l.Stats()[l.SlotCount()-1].Hash, 16),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
