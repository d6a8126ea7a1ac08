// Package unchecked provides slice element access without bounds checks.
//
// It backs the ...Unchecked query entry points. Callers must guarantee that
// the index is in range; an out-of-range index reads arbitrary memory.
package unchecked

import "unsafe"

// At returns s[i] without a bounds check.
func At[E any](s []E, i int) E {
	return *Ptr(s, i)
}

// Ptr returns &s[i] without a bounds check.
func Ptr[E any](s []E, i int) *E {
	var zero E
	return (*E)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(s)), uintptr(i)*unsafe.Sizeof(zero)))
}
