package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SliceReader provides bounds-checked reads from a byte slice.
// It is used when opening buffers to avoid intermediate allocations.
type SliceReader struct {
	b   []byte
	off int
}

func NewSliceReader(b []byte) *SliceReader {
	return &SliceReader{b: b, off: 0}
}

func (r *SliceReader) Offset() int {
	if r == nil {
		return 0
	}
	return r.off
}

func (r *SliceReader) Len() int {
	return len(r.b)
}

func (r *SliceReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.b)-r.off {
		return nil, fmt.Errorf("%w: out of bounds read (%d bytes at %d, len=%d)", ErrCorrupt, n, r.off, len(r.b))
	}
	out := r.b[r.off : r.off+n : r.off+n]
	r.off += n
	return out, nil
}

// Seek moves to the absolute offset off.
func (r *SliceReader) Seek(off int) error {
	if off < 0 || off > len(r.b) {
		return fmt.Errorf("%w: offset %d outside buffer of %d bytes", ErrCorrupt, off, len(r.b))
	}
	r.off = off
	return nil
}

func (r *SliceReader) Remaining() []byte {
	if r.off >= len(r.b) {
		return nil
	}
	return r.b[r.off:]
}

// ReadHeader decodes the header at the current offset. It checks the magic
// number and version only.
func (r *SliceReader) ReadHeader() (*Header, error) {
	b, err := r.ReadBytes(HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%w: buffer too small for header", ErrCorrupt)
	}
	var h Header
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, h.Version)
	}
	return &h, nil
}

// ReadView aliases the next n elements of E. The caller guarantees the
// current offset is aligned for E.
func ReadView[E any](r *SliceReader, n, size int) ([]E, error) {
	b, err := r.ReadBytes(n * size)
	if err != nil {
		return nil, err
	}
	return viewOf[E](b, n), nil
}
