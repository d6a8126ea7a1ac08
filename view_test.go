package rmq

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rmq/persistence"
	"github.com/hupe1980/rmq/testutil"
)

func TestOpen_RoundTrip(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for _, n := range []int{0, 1, 16, 17, 100, 513} {
		values := rng.Int32s(n, -500, 500)
		idx, err := New(values)
		require.NoError(t, err)

		buf, err := idx.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, buf, idx.EncodedSize())

		v, err := Open[int32](buf)
		require.NoError(t, err)
		checkAll[int32](t, values, v)

		for l := 0; l < n; l += 7 {
			for r := l; r < n; r += 11 {
				want, err := idx.Query(l, r)
				require.NoError(t, err)
				got, err := v.Query(l, r)
				require.NoError(t, err)
				require.Equal(t, want, got)
			}
		}
		require.NoError(t, v.Close())
	}
}

func TestOpen_ZeroCopy(t *testing.T) {
	idx, err := New([]uint64{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 10, 20, 30, 40, 50, 60, 70})
	require.NoError(t, err)
	buf, err := idx.MarshalBinary()
	require.NoError(t, err)

	v, err := Open[uint64](buf)
	require.NoError(t, err)
	assert.Same(t, &buf[0], &v.Bytes()[0])

	// The first value slot follows the header directly.
	binary.LittleEndian.PutUint64(buf[persistence.HeaderSize:], 1234)
	got, err := v.At(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), got)
}

func TestWriteTo_MatchesMarshal(t *testing.T) {
	idx, err := New(testutil.NewRNG(3).Floats(77, 0, 1))
	require.NoError(t, err)

	buf, err := idx.MarshalBinary()
	require.NoError(t, err)

	var w bytes.Buffer
	n, err := idx.WriteTo(&w)
	require.NoError(t, err)
	assert.Equal(t, int64(len(buf)), n)
	assert.Equal(t, buf, w.Bytes())
}

func TestOpen_Rejects(t *testing.T) {
	values := testutil.NewRNG(5).Int32s(200, 0, 1000)
	idx, err := New(values)
	require.NoError(t, err)

	fresh := func(t *testing.T) []byte {
		t.Helper()
		buf, err := idx.MarshalBinary()
		require.NoError(t, err)
		return buf
	}

	t.Run("magic", func(t *testing.T) {
		buf := fresh(t)
		buf[0] ^= 0xff
		_, err := Open[int32](buf)
		require.ErrorIs(t, err, persistence.ErrInvalidMagic)
	})

	t.Run("kind", func(t *testing.T) {
		_, err := Open[int64](fresh(t))
		require.ErrorIs(t, err, persistence.ErrKindMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		buf := fresh(t)
		_, err := Open[int32](buf[:len(buf)-8])
		require.ErrorIs(t, err, persistence.ErrCorrupt)
	})

	t.Run("checksum", func(t *testing.T) {
		buf := fresh(t)
		buf[persistence.HeaderSize+3] ^= 0x01
		_, err := Open[int32](buf)
		require.ErrorIs(t, err, persistence.ErrCorrupt)
		assert.True(t, persistence.IsChecksumMismatch(err))
	})

	t.Run("checksum disabled", func(t *testing.T) {
		buf := fresh(t)
		buf[persistence.HeaderSize] ^= 0x01
		v, err := Open[int32](buf, WithChecksum(false))
		require.NoError(t, err)
		got, err := v.At(0)
		require.NoError(t, err)
		assert.Equal(t, values[0]^0x01, got)
	})

	t.Run("unaligned", func(t *testing.T) {
		buf := fresh(t)
		shifted := persistence.AlignedBuffer(len(buf) + 1)[1:]
		copy(shifted, buf)
		_, err := Open[int32](shifted)
		require.ErrorIs(t, err, persistence.ErrUnalignedAccess)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Open[int32](nil)
		require.Error(t, err)
	})
}

func TestOpenFile(t *testing.T) {
	values := testutil.NewRNG(11).Ints(1000, -50, 50)
	idx, err := New(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "index.rmq")
	require.NoError(t, idx.SaveFile(path))

	v, err := OpenFile[int64](path)
	require.NoError(t, err)

	for l := 0; l < len(values); l += 13 {
		for r := l; r < len(values); r += 29 {
			lo, hi := testutil.BruteMinMax(values, l, r)
			got := v.QueryUnchecked(l, r)
			require.Equal(t, lo, got.Min)
			require.Equal(t, hi, got.Max)
		}
	}

	require.NoError(t, v.Close())
	require.NoError(t, v.Close())
}

func TestOpenFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenFile[int32](filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xab}, 128), 0o600))
	_, err = OpenFile[int32](path)
	require.ErrorIs(t, err, persistence.ErrInvalidMagic)
}
