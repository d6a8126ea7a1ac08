package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/rmq/ordering"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Range returns a random inclusive range [l, r] with 0 <= l <= r < n.
func (r *RNG) Range(n int) (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, b := r.rand.Intn(n), r.rand.Intn(n)
	if a > b {
		a, b = b, a
	}
	return a, b
}

// Ints returns n values uniformly drawn from [minVal, maxVal].
// A narrow range produces many ties.
func (r *RNG) Ints(n int, minVal, maxVal int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, n)
	span := maxVal - minVal + 1
	for i := range out {
		out[i] = minVal + r.rand.Int63n(span)
	}
	return out
}

// Int32s is Ints for int32 values.
func (r *RNG) Int32s(n int, minVal, maxVal int32) []int32 {
	ints := r.Ints(n, int64(minVal), int64(maxVal))
	out := make([]int32, n)
	for i, v := range ints {
		out[i] = int32(v) //nolint:gosec // bounded by minVal/maxVal
	}
	return out
}

// Floats returns n values uniformly drawn from [minVal, maxVal).
func (r *RNG) Floats(n int, minVal, maxVal float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = minVal + r.rand.Float64()*(maxVal-minVal)
	}
	return out
}

// BruteMinMax returns the minimum and maximum of values[l..r] by scanning.
func BruteMinMax[T ordering.Element](values []T, l, r int) (T, T) {
	lo, hi := values[l], values[l]
	for _, v := range values[l+1 : r+1] {
		lo = ordering.Lesser(lo, v)
		hi = ordering.Greater(hi, v)
	}
	return lo, hi
}

// BruteSelect returns the positions in [l, r] whose values lie in [lo, hi].
func BruteSelect[T ordering.Element](values []T, l, r int, lo, hi T) []uint64 {
	var out []uint64
	for i := l; i <= r; i++ {
		if values[i] >= lo && values[i] <= hi {
			out = append(out, uint64(i)) //nolint:gosec // i >= 0
		}
	}
	return out
}
