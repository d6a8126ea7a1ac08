// Package conv provides checked integer conversions.
//
// Counts and sizes read from persisted headers and blob metadata are
// untrusted; they pass through these helpers before they index memory.
// Conversions that are provably safe (loop indices, bounded counters) use
// plain casts instead.
package conv
