package parallellist

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/olekukonko/tablewriter"

	"github.com/Fire-Aalt/parallellist/internal/unsafecast"
)

// BucketStats describes the occupancy of one bucket.
type BucketStats struct {
	Slot int
	Len  int
	Cap  int
	// Hash is the xxHash64 of the bucket's raw value bytes. It is only a
	// content hash for pointer-free element types.
	Hash uint64
}

// Stats returns one entry per bucket in slot order.
func (l *List[T]) Stats() []BucketStats {
	stats := make([]BucketStats, len(l.buckets))
	for i := range l.buckets {
		items := l.buckets[i].items
		stats[i] = BucketStats{
			Slot: i,
			Len:  len(items),
			Cap:  cap(items),
			Hash: xxhash.Sum64(unsafecast.Bytes(items)),
		}
	}
	return stats
}

// Fingerprint folds the bucket hashes in slot order into a single xxHash64.
// Two lists holding the same values in the same buckets have the same
// fingerprint, so it identifies a round's output independent of scheduling.
func (l *List[T]) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for i := range l.buckets {
		binary.LittleEndian.PutUint64(buf[:], xxhash.Sum64(unsafecast.Bytes(l.buckets[i].items)))
		if _, err := h.Write(buf[:]); err != nil {
			panic("hash.Hash.Write returned unexpected error: " + err.Error())
		}
	}
	return h.Sum64()
}

// Report writes a table of the non-empty buckets followed by a total row.
func (l *List[T]) Report(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("Slot", "Len", "Cap", "Hash")

	total, capacity := 0, 0
	for _, s := range l.Stats() {
		total += s.Len
		capacity += s.Cap
		if s.Len == 0 {
			continue
		}
		if err := table.Append([]string{
			strconv.Itoa(s.Slot),
			strconv.Itoa(s.Len),
			strconv.Itoa(s.Cap),
			strconv.FormatUint(s.Hash, 16),
		}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{"total", strconv.Itoa(total), strconv.Itoa(capacity), strconv.FormatUint(l.Fingerprint(), 16)}); err != nil {
		return err
	}
	return table.Render()
}
