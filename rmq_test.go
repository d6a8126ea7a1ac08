package rmq

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rmq/ordering"
	"github.com/hupe1980/rmq/testutil"
)

type querier[T ordering.Element] interface {
	Len() int
	At(i int) (T, error)
	AtUnchecked(i int) T
	Query(l, r int) (ordering.Pair[T], error)
	QueryUnchecked(l, r int) ordering.Pair[T]
}

// checkAll compares every range of q against a running brute-force scan.
func checkAll[T ordering.Element](t *testing.T, values []T, q querier[T]) {
	t.Helper()
	require.Equal(t, len(values), q.Len())

	for i, v := range values {
		got, err := q.At(i)
		require.NoError(t, err)
		require.Equal(t, v, got, "At(%d)", i)
		require.Equal(t, v, q.AtUnchecked(i), "AtUnchecked(%d)", i)
	}

	for l := range values {
		want := ordering.PairOf(values[l])
		for r := l; r < len(values); r++ {
			want = want.Combine(ordering.PairOf(values[r]))

			got, err := q.Query(l, r)
			require.NoError(t, err)
			require.Equal(t, want, got, "Query(%d, %d)", l, r)
			require.Equal(t, want, q.QueryUnchecked(l, r), "QueryUnchecked(%d, %d)", l, r)
		}
	}
}

func TestNew_Scenario(t *testing.T) {
	idx, err := New([]int{3, 5, 8, 4, 10, 1, 2, 9})
	require.NoError(t, err)

	tests := []struct {
		l, r     int
		min, max int
	}{
		{0, 7, 1, 10},
		{2, 5, 1, 10},
		{3, 4, 4, 10},
		{5, 6, 1, 2},
	}
	for _, tt := range tests {
		got, err := idx.Query(tt.l, tt.r)
		require.NoError(t, err)
		assert.Equal(t, ordering.Pair[int]{Min: tt.min, Max: tt.max}, got, "Query(%d, %d)", tt.l, tt.r)
	}
}

func TestNew_Ties(t *testing.T) {
	idx, err := New([]int8{5, 3, 3, 3, 5})
	require.NoError(t, err)

	got, err := idx.Query(0, 4)
	require.NoError(t, err)
	assert.Equal(t, int8(3), got.Min)
	assert.Equal(t, int8(5), got.Max)

	got, err = idx.Query(1, 3)
	require.NoError(t, err)
	assert.Equal(t, int8(3), got.Min)
	assert.Equal(t, int8(3), got.Max)
}

func TestNew_BruteForce(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for _, n := range []int{1, 2, 15, 16, 17, 31, 32, 33, 48, 100, 257, 600} {
		t.Run("int64", func(t *testing.T) {
			values := rng.Ints(n, -1000, 1000)
			idx, err := New(values)
			require.NoError(t, err)
			checkAll[int64](t, values, idx)
		})
		t.Run("ties", func(t *testing.T) {
			values := rng.Int32s(n, 0, 2)
			idx, err := New(values)
			require.NoError(t, err)
			checkAll[int32](t, values, idx)
		})
	}
}

func TestNew_Float(t *testing.T) {
	rng := testutil.NewRNG(7)
	values := rng.Floats(300, -1, 1)
	values[10] = math.Inf(1)
	values[200] = math.Inf(-1)

	idx, err := New(values)
	require.NoError(t, err)
	checkAll[float64](t, values, idx)

	got, err := idx.Query(0, len(values)-1)
	require.NoError(t, err)
	assert.Equal(t, math.Inf(-1), got.Min)
	assert.Equal(t, math.Inf(1), got.Max)
}

func TestNew_RejectsNaN(t *testing.T) {
	values := []float32{1, 2, float32(math.NaN()), 4}

	idx, err := New(values)
	require.ErrorIs(t, err, ErrUnordered)
	assert.Nil(t, idx)
}

func TestNew_CopiesInput(t *testing.T) {
	values := []uint16{4, 2, 9}
	idx, err := New(values)
	require.NoError(t, err)

	values[1] = 100

	got, err := idx.Min(0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), got)
}

type celsius int16

func TestNew_NamedType(t *testing.T) {
	values := []celsius{-5, 12, 30, -20, 8}
	idx, err := New(values)
	require.NoError(t, err)
	checkAll[celsius](t, values, idx)
}

func TestQuery_BlockBoundaries(t *testing.T) {
	values := make([]int, 80)
	for i := range values {
		values[i] = (i * 37) % 101
	}
	idx, err := New(values)
	require.NoError(t, err)

	ranges := []struct {
		name string
		l, r int
	}{
		{"within one block", 3, 12},
		{"whole block", 16, 31},
		{"adjacent blocks", 10, 20},
		{"adjacent blocks edges", 15, 16},
		{"one interior block", 5, 40},
		{"many interior blocks", 1, 78},
		{"full array", 0, 79},
		{"last element", 79, 79},
	}
	for _, tt := range ranges {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := testutil.BruteMinMax(values, tt.l, tt.r)
			got, err := idx.Query(tt.l, tt.r)
			require.NoError(t, err)
			assert.Equal(t, lo, got.Min)
			assert.Equal(t, hi, got.Max)

			mn, err := idx.Min(tt.l, tt.r)
			require.NoError(t, err)
			assert.Equal(t, lo, mn)

			mx, err := idx.Max(tt.l, tt.r)
			require.NoError(t, err)
			assert.Equal(t, hi, mx)
		})
	}
}

func TestQuery_OutOfRange(t *testing.T) {
	idx, err := New([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18})
	require.NoError(t, err)

	tests := []struct {
		name string
		l, r int
	}{
		{"negative", -1, 3},
		{"reversed", 5, 4},
		{"past end", 0, 18},
		{"into padding", 17, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idx.Query(tt.l, tt.r)
			require.ErrorIs(t, err, ErrOutOfRange)

			var re *RangeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.l, re.L)
			assert.Equal(t, tt.r, re.R)
			assert.Equal(t, 18, re.Len)
		})
	}

	_, err = idx.At(18)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "position 18")
}

func TestNew_Empty(t *testing.T) {
	idx, err := New([]float64{})
	require.NoError(t, err)

	assert.Equal(t, 0, idx.Len())
	_, err = idx.Query(0, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = idx.At(0)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestQuery_Concurrent(t *testing.T) {
	rng := testutil.NewRNG(99)
	values := rng.Ints(5000, -1e6, 1e6)
	idx, err := New(values)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := testutil.NewRNG(int64(g))
			for range 500 {
				l, r := local.Range(len(values))
				lo, hi := testutil.BruteMinMax(values, l, r)
				if got := idx.QueryUnchecked(l, r); got.Min != lo || got.Max != hi {
					errs <- "mismatch"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	assert.Empty(t, errs)
}

func BenchmarkQuery(b *testing.B) {
	rng := testutil.NewRNG(1)
	values := rng.Ints(1<<20, math.MinInt32, math.MaxInt32)
	idx, err := New(values)
	require.NoError(b, err)

	ls := make([]int, 1024)
	rs := make([]int, 1024)
	for i := range ls {
		ls[i], rs[i] = rng.Range(len(values))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i & 1023
		_ = idx.QueryUnchecked(ls[j], rs[j])
	}
}

func BenchmarkNew(b *testing.B) {
	values := testutil.NewRNG(1).Ints(1<<16, 0, 1<<30)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = New(values)
	}
}
