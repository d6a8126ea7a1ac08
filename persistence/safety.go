package persistence

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

var (
	// ErrUnsupportedArchitecture is returned when running on unsupported CPU architecture
	ErrUnsupportedArchitecture = errors.New("unsupported architecture: only amd64 and arm64 are supported")

	// ErrBigEndian is returned when running on big-endian systems
	ErrBigEndian = errors.New("big-endian systems are not supported")

	// ErrUnalignedAccess is returned when a buffer does not start on an
	// Alignment boundary
	ErrUnalignedAccess = errors.New("unaligned memory access detected")
)

// ValidatePlatform reports whether the running platform can alias persisted
// bytes as typed slices.
func ValidatePlatform() error {
	arch := runtime.GOARCH
	if arch != "amd64" && arch != "arm64" {
		return fmt.Errorf("%w: %s", ErrUnsupportedArchitecture, arch)
	}
	if !isLittleEndian() {
		return ErrBigEndian
	}
	return nil
}

func isLittleEndian() bool {
	var test uint16 = 0x0001
	firstByte := *(*byte)(unsafe.Pointer(&test))
	return firstByte == 1
}

// validateAlignment checks that buf starts on an Alignment boundary.
func validateAlignment(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	if ptr%Alignment != 0 {
		return fmt.Errorf("%w: buffer at address 0x%x", ErrUnalignedAccess, ptr)
	}
	return nil
}

// IsAligned reports whether buf can be opened without copying.
func IsAligned(buf []byte) bool {
	return validateAlignment(buf) == nil
}

// AlignedBuffer returns a zeroed byte slice of length n whose first byte is
// aligned to Alignment.
func AlignedBuffer(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n)
}

// Aligned returns buf if it is suitably aligned, or an aligned copy of it.
func Aligned(buf []byte) []byte {
	if IsAligned(buf) {
		return buf
	}
	out := AlignedBuffer(len(buf))
	copy(out, buf)
	return out
}

// PlatformInfo returns information about the current platform
func PlatformInfo() string {
	endian := "little-endian"
	if !isLittleEndian() {
		endian = "big-endian"
	}
	return fmt.Sprintf("GOOS=%s GOARCH=%s endianness=%s", runtime.GOOS, runtime.GOARCH, endian)
}

// bytesOf returns the raw bytes backing s.
func bytesOf[E any](s []E) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero E
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// viewOf aliases b as a slice of n elements of E. b must be aligned for E
// and hold exactly n*sizeof(E) bytes.
func viewOf[E any](b []byte, n int) []E {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*E)(unsafe.Pointer(unsafe.SliceData(b))), n)
}
