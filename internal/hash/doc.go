// Package hash provides the CRC32-Castagnoli checksum used to detect
// accidental corruption of serialized indexes.
//
// The Go runtime uses SSE4.2 on amd64 and the CRC extension on arm64, so
// checksumming a freshly mapped file runs at memory bandwidth.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For checksums over several sections without concatenating them:
//
//	crc := hash.UpdateCRC32C(0, blocks)
//	crc = hash.UpdateCRC32C(crc, table)
package hash
