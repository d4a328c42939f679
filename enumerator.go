package parallellist

import "iter"

// Enumerator walks the values of a list in flatten order without copying
// them. Current is only valid after MoveNext returned true and until the
// next MoveNext or Reset.
type Enumerator[T any] struct {
	list  *List[T]
	slot  int
	index int
	value T
}

// Enumerator returns an enumerator positioned before the first value.
func (l *List[T]) Enumerator() *Enumerator[T] {
	return &Enumerator[T]{list: l}
}

// MoveNext advances to the next value, skipping empty buckets, and reports
// whether there was one.
func (e *Enumerator[T]) MoveNext() bool {
	buckets := e.list.buckets
	for e.slot < len(buckets) {
		items := buckets[e.slot].items
		if e.index < len(items) {
			e.value = items[e.index]
			e.index++
			return true
		}
		e.slot++
		e.index = 0
	}

	var zero T
	e.value = zero
	return false
}

// Current returns the value MoveNext stopped at.
func (e *Enumerator[T]) Current() T {
	return e.value
}

// Reset rewinds to before the first value of bucket 0.
func (e *Enumerator[T]) Reset() {
	var zero T
	e.slot = 0
	e.index = 0
	e.value = zero
}

// All returns an iterator over the values in flatten order.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range l.buckets {
			for _, v := range l.buckets[i].items {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Buckets returns an iterator over the non-empty buckets as (slot, values)
// pairs in ascending slot order. The slices alias the buckets.
func (l *List[T]) Buckets() iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		for i := range l.buckets {
			items := l.buckets[i].items
			if len(items) == 0 {
				continue
			}
			if !yield(i, items) {
				return
			}
		}
	}
}
