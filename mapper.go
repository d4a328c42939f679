package parallellist

import "github.com/Fire-Aalt/parallellist/jobs"

// Mapper pairs a List with the slice it is flattened into, for the common
// "collect in parallel, consume as one slice" round.
type Mapper[T any] struct {
	List *List[T]
	Out  []T
}

// NewMapper creates the list with initialCapacity per bucket and an output
// slice with the same initial capacity.
func NewMapper[T any](initialCapacity int, alloc Allocator[T]) (*Mapper[T], error) {
	l, err := New(initialCapacity, alloc)
	if err != nil {
		return nil, err
	}
	return &Mapper[T]{
		List: l,
		Out:  make([]T, 0, initialCapacity),
	}, nil
}

// Clear empties both the list and the output, keeping capacity.
func (m *Mapper[T]) Clear() {
	m.List.Clear()
	m.Out = m.Out[:0]
}

// Flush appends the list's values to Out.
func (m *Mapper[T]) Flush() []T {
	m.Out = m.List.CopyTo(m.Out)
	return m.Out
}

// ScheduleFlush appends the list's values to Out once dep has completed.
func (m *Mapper[T]) ScheduleFlush(dep *jobs.Handle) *jobs.Handle {
	return m.List.ScheduleCopyTo(&m.Out, dep)
}

// Close releases the list. Out stays valid.
func (m *Mapper[T]) Close() error {
	return m.List.Close()
}
