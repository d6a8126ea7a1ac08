// Package bitscan provides the find-highest-set-bit primitive used by the
// block decoder and the sparse table level selection.
//
// math/bits lowers LeadingZeros64 to LZCNT/CLZ on amd64 and arm64, so these
// helpers compile to a single instruction plus arithmetic.
package bitscan

import "math/bits"

// MSB returns the 1-based position of the highest set bit of x, or 0 if x is 0.
func MSB(x uint64) int {
	return 64 - bits.LeadingZeros64(x)
}

// Log2 returns floor(log2(n)) for n > 0. The result for n == 0 is -1.
func Log2(n uint64) int {
	return MSB(n) - 1
}

// LeadingZeros returns the number of leading zero bits in x (64 for x == 0).
func LeadingZeros(x uint64) int {
	return bits.LeadingZeros64(x)
}
