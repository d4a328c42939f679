package parallellist

import (
	"slices"

	"github.com/Fire-Aalt/parallellist/internal/debug"
	"github.com/Fire-Aalt/parallellist/jobs"
)

// CopyTo appends every value of the list to dst and returns the extended
// slice. Buckets are concatenated in ascending slot order and each bucket
// keeps its append order, so the result depends only on which slot wrote
// which values, not on how the workers were scheduled. dst grows at most
// once; its existing contents are preserved.
func (l *List[T]) CopyTo(dst []T) []T {
	n := l.Len()
	old := len(dst)
	dst = slices.Grow(dst, n)[:old+n]

	off := old
	for i := range l.buckets {
		off += copy(dst[off:], l.buckets[i].items)
	}
	if debug.Enabled {
		debug.Assert("flatten covers every value", func() bool { return off == old+n })
	}
	return dst
}

// ToSlice returns the flattened values in a new slice of exact length.
func (l *List[T]) ToSlice() []T {
	return l.CopyTo(make([]T, 0, l.Len()))
}

// ScheduleCopyTo flattens the list into *dst on a separate goroutine once
// dep has completed. dep is normally the handle of the writers' dispatch;
// neither the list nor *dst may be touched until the returned handle
// completes.
func (l *List[T]) ScheduleCopyTo(dst *[]T, dep *jobs.Handle) *jobs.Handle {
	return jobs.Schedule(dep, func() error {
		*dst = l.CopyTo(*dst)
		return nil
	})
}
