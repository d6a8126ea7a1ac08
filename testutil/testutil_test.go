package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInts(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Ints(100, -3, 3)

	assert.Len(t, v, 100)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, int64(-3))
		assert.LessOrEqual(t, x, int64(3))
	}
}

func TestFloats(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Floats(100, -1, 1)

	assert.Len(t, v, 100)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, -1.0)
		assert.Less(t, x, 1.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	a := rng.Int32s(10, 0, 1000)
	rng.Reset()
	b := rng.Int32s(10, 0, 1000)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(42), rng.Seed())
}

func TestRange(t *testing.T) {
	rng := NewRNG(1)
	for range 100 {
		l, r := rng.Range(17)
		assert.LessOrEqual(t, 0, l)
		assert.LessOrEqual(t, l, r)
		assert.Less(t, r, 17)
	}
}

func TestBruteMinMax(t *testing.T) {
	values := []int{3, 5, 8, 4, 10, 1, 2, 9}

	lo, hi := BruteMinMax(values, 0, 7)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 10, hi)

	lo, hi = BruteMinMax(values, 3, 3)
	assert.Equal(t, 4, lo)
	assert.Equal(t, 4, hi)
}

func TestBruteSelect(t *testing.T) {
	values := []int{3, 5, 8, 4, 10, 1, 2, 9}

	assert.Equal(t, []uint64{1, 3}, BruteSelect(values, 0, 7, 4, 5))
	assert.Nil(t, BruteSelect(values, 0, 7, 11, 20))
}
