package persistence

import (
	"fmt"

	"github.com/hupe1980/rmq/block"
	"github.com/hupe1980/rmq/internal/conv"
	"github.com/hupe1980/rmq/ordering"
	"github.com/hupe1980/rmq/sparse"
)

// DecodeOptions controls Decode.
type DecodeOptions struct {
	// SkipChecksum disables checksum verification. Structural checks still run.
	SkipChecksum bool
}

// PeekHeader decodes and returns the header of buf without validating the
// rest of the layout.
func PeekHeader(buf []byte) (*Header, error) {
	return NewSliceReader(buf).ReadHeader()
}

// Decode validates buf as an index of T and returns a layout whose slices
// alias buf. buf must stay alive and unmodified while the layout is in use.
func Decode[T ordering.Element](buf []byte, opts DecodeOptions) (Layout[T], *Header, error) {
	if err := ValidatePlatform(); err != nil {
		return Layout[T]{}, nil, err
	}
	if err := validateAlignment(buf); err != nil {
		return Layout[T]{}, nil, err
	}
	kind := KindOf[T]()
	if kind == KindInvalid {
		return Layout[T]{}, nil, fmt.Errorf("%w: unsupported element type", ErrKindMismatch)
	}

	r := NewSliceReader(buf)
	h, err := r.ReadHeader()
	if err != nil {
		return Layout[T]{}, nil, err
	}
	s, err := validateHeader[T](h, kind, len(buf))
	if err != nil {
		return Layout[T]{}, h, err
	}

	var l Layout[T]
	l.Length = int(h.Length)
	if l.Blocks, err = ReadView[block.Block[T]](r, s.NumBlocks, s.BlockRecord); err != nil {
		return Layout[T]{}, h, err
	}
	if l.Entries, err = ReadView[ordering.Pair[T]](r, s.NumEntries, s.EntryRecord); err != nil {
		return Layout[T]{}, h, err
	}
	if err := r.Seek(s.HeadsOffset); err != nil {
		return Layout[T]{}, h, err
	}
	if l.Heads, err = ReadView[uint64](r, s.NumLevels, 8); err != nil {
		return Layout[T]{}, h, err
	}

	for d, head := range l.Heads {
		if want := sparse.Head(s.NumBlocks, d); head != want {
			return Layout[T]{}, h, fmt.Errorf("%w: level %d starts at %d, want %d", ErrCorrupt, d, head, want)
		}
	}

	if !opts.SkipChecksum {
		if actual := ComputeChecksum(buf[HeaderSize:]); actual != h.Checksum {
			return Layout[T]{}, h, &ChecksumMismatchError{Expected: h.Checksum, Actual: actual}
		}
	}

	if kind.IsFloat() {
		if err := checkOrdered(l); err != nil {
			return Layout[T]{}, h, err
		}
	}
	return l, h, nil
}

// validateHeader checks every header field against size, the length of the
// buffer, and returns the section geometry it implies.
func validateHeader[T ordering.Element](h *Header, kind Kind, size int) (Sections, error) {
	if !h.Kind.Valid() {
		return Sections{}, fmt.Errorf("%w: unknown element kind %d", ErrCorrupt, uint8(h.Kind))
	}
	if h.Kind != kind {
		return Sections{}, fmt.Errorf("%w: buffer holds %s, want %s", ErrKindMismatch, h.Kind, kind)
	}
	if h.BlockSize != block.Size {
		return Sections{}, fmt.Errorf("%w: block size %d", ErrCorrupt, h.BlockSize)
	}
	if h.Flags != 0 {
		return Sections{}, fmt.Errorf("%w: unknown flags 0x%04x", ErrCorrupt, h.Flags)
	}
	// Every element occupies at least one byte, which also keeps the
	// arithmetic below from overflowing.
	if h.Length > uint64(size) {
		return Sections{}, fmt.Errorf("%w: length %d exceeds buffer of %d bytes", ErrCorrupt, h.Length, size)
	}
	length, err := conv.Uint64ToInt(h.Length)
	if err != nil {
		return Sections{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	numBlocks := numBlocksFor(length)
	if h.NumBlocks != uint64(numBlocks) {
		return Sections{}, fmt.Errorf("%w: %d blocks for length %d, want %d", ErrCorrupt, h.NumBlocks, h.Length, numBlocks)
	}
	levels, entries := sparse.Shape(numBlocks)
	if h.NumLevels != uint64(levels) {
		return Sections{}, fmt.Errorf("%w: %d levels, want %d", ErrCorrupt, h.NumLevels, levels)
	}
	if h.NumEntries != uint64(entries) {
		return Sections{}, fmt.Errorf("%w: %d entries, want %d", ErrCorrupt, h.NumEntries, entries)
	}

	s := SectionsOf[T](numBlocks, entries, levels)
	if h.BlocksOffset != uint64(s.BlocksOffset) {
		return Sections{}, fmt.Errorf("%w: blocks offset %d, want %d", ErrCorrupt, h.BlocksOffset, s.BlocksOffset)
	}
	if h.TableOffset != uint64(s.TableOffset) {
		return Sections{}, fmt.Errorf("%w: table offset %d, want %d", ErrCorrupt, h.TableOffset, s.TableOffset)
	}
	if s.TotalSize != size {
		return Sections{}, fmt.Errorf("%w: buffer is %d bytes, layout needs %d", ErrCorrupt, size, s.TotalSize)
	}
	return s, nil
}

func checkOrdered[T ordering.Element](l Layout[T]) error {
	for i := range l.Blocks {
		for j, v := range l.Blocks[i].Values {
			if !ordering.Valid(v) {
				return fmt.Errorf("%w: NaN at block %d slot %d", ErrCorrupt, i, j)
			}
		}
	}
	for i, e := range l.Entries {
		if !ordering.Valid(e.Min) || !ordering.Valid(e.Max) {
			return fmt.Errorf("%w: NaN in table entry %d", ErrCorrupt, i)
		}
	}
	return nil
}
