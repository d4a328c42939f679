// Package unsafecast exposes zero-copy conversions between typed slices and
// their raw byte image.
//
// The conversions do not check that the memory layouts are compatible. They
// are only used on element types the caller has already established to be
// plain values (see parallellist.MmapAllocator), or for read-only hashing.
package unsafecast

import "unsafe"

// slice mirrors the runtime layout of a slice header. It keeps an
// unsafe.Pointer rather than a uintptr so the GC still tracks the array.
type slice struct {
	ptr unsafe.Pointer
	len int
	cap int
}

// Slice converts data to a []To sharing the same backing array. Length and
// capacity are scaled by the size ratio of the two element types.
func Slice[To, From any](data []From) []To {
	// unsafe.Slice would drop the capacity, so the header is built by hand.
	var zf From
	var zt To
	s := slice{
		ptr: unsafe.Pointer(unsafe.SliceData(data)),
		len: int((uintptr(len(data)) * unsafe.Sizeof(zf)) / unsafe.Sizeof(zt)),
		cap: int((uintptr(cap(data)) * unsafe.Sizeof(zf)) / unsafe.Sizeof(zt)),
	}
	return *(*[]To)(unsafe.Pointer(&s))
}

// Bytes returns the raw byte image of data[:len(data)].
func Bytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), uintptr(len(data))*unsafe.Sizeof(z))
}

// FullBytes returns the raw byte image of data[:cap(data)].
func FullBytes[T any](data []T) []byte {
	return Bytes(data[:cap(data)])
}
