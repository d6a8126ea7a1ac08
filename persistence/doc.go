// Package persistence defines the byte-exact layout of a serialized range
// index and the validation pass that turns an untrusted buffer into slices
// aliasing it.
//
// PLATFORM REQUIREMENTS:
// - Architecture: amd64 or arm64 only
// - Endianness: Little-endian (native on x86_64 and ARM64)
// - Alignment: buffers must start on an 8-byte boundary (see AlignedBuffer)
//
// Layout:
//
//	[0, 64)              Header
//	[64, TableOffset)    NumBlocks block records (values, min table, max table)
//	[TableOffset, ...)   NumEntries (min, max) sparse table entries
//	[align8(...), end)   NumLevels uint64 level heads
//
// The checksum is CRC32C over every byte after the header.
package persistence
