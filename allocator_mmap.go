package parallellist

import (
	"fmt"
	"reflect"

	"github.com/edsrzf/mmap-go"

	streamerrors "github.com/Fire-Aalt/parallellist/errors"
	"github.com/Fire-Aalt/parallellist/internal/unsafecast"
)

// MmapAllocator places buckets in anonymous memory mappings outside the Go
// heap, so large per-round scratch lists do not add to GC pressure. Each
// allocation is its own mapping and is unmapped by Free.
//
// Only pointer-free element types are accepted: the garbage collector does
// not scan mapped memory, so a pointer stored there would not keep its
// target alive.
type MmapAllocator[T any] struct{}

// NewMmapAllocator returns an mmap-backed allocator for T, or
// ErrPointerElement when T contains pointers.
func NewMmapAllocator[T any]() (*MmapAllocator[T], error) {
	t := reflect.TypeFor[T]()
	if hasPointers(t) {
		return nil, fmt.Errorf("%w: %s", streamerrors.ErrPointerElement, t)
	}
	return &MmapAllocator[T]{}, nil
}

// Allocate maps a fresh anonymous region of capacity elements and prefaults
// it for writing.
func (a *MmapAllocator[T]) Allocate(capacity int) []T {
	size := sizeOf[T](capacity)
	if size == 0 {
		return make([]T, 0, capacity)
	}

	m, err := mmap.MapRegion(nil, int(size), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		outOfMemory(capacity, err)
	}
	prefaultRegion(m)
	return unsafecast.Slice[T]([]byte(m))[:0]
}

// Free unmaps a region returned by Allocate.
func (a *MmapAllocator[T]) Free(buf []T) error {
	if sizeOf[T](cap(buf)) == 0 {
		return nil
	}
	m := mmap.MMap(unsafecast.FullBytes(buf))
	if err := m.Unmap(); err != nil {
		return fmt.Errorf("unmap bucket: %w", err)
	}
	return nil
}

// hasPointers reports whether values of t hold anything the garbage
// collector would have to trace.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
