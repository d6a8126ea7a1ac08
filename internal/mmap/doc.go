// Package mmap provides read-only memory-mapped files for zero-copy index views.
//
// # Usage
//
//	m, err := mmap.Open("prices.rmq")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessRandom)
//	data := m.Bytes() // aliases the file; valid until Close
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// Mappings start page-aligned, which satisfies the 8-byte alignment the index
// format requires.
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers must
// ensure nothing reads Bytes() after Close returns.
package mmap
