package persistence

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rmq/internal/hash"
)

// Checksums cover every byte after the header and use CRC32C. They detect
// accidental corruption only; they are not a tamper seal.

// ComputeChecksum returns the checksum of data.
func ComputeChecksum(data []byte) uint32 {
	return hash.CRC32C(data)
}

// checksumSections chains the checksum over consecutive sections.
func checksumSections(sections ...[]byte) uint32 {
	var crc uint32
	for _, s := range sections {
		crc = hash.UpdateCRC32C(crc, s)
	}
	return crc
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Unwrap lets errors.Is(err, ErrCorrupt) match checksum failures.
func (e *ChecksumMismatchError) Unwrap() error {
	return ErrCorrupt
}

// IsChecksumMismatch returns true if err is or wraps a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var target *ChecksumMismatchError
	return errors.As(err, &target)
}
