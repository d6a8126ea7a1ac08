package persistence

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/rmq/block"
	"github.com/hupe1980/rmq/ordering"
	"github.com/hupe1980/rmq/sparse"
)

var zeroPad [Alignment]byte

// Validate checks that l is internally consistent: the block count matches
// the length and the table has the shape of a sparse table over the blocks.
func (l Layout[T]) Validate() error {
	if l.Length < 0 {
		return fmt.Errorf("%w: negative length %d", ErrCorrupt, l.Length)
	}
	if want := numBlocksFor(l.Length); len(l.Blocks) != want {
		return fmt.Errorf("%w: %d blocks for length %d, want %d", ErrCorrupt, len(l.Blocks), l.Length, want)
	}
	levels, entries := sparse.Shape(len(l.Blocks))
	if len(l.Heads) != levels || len(l.Entries) != entries {
		return fmt.Errorf("%w: table has %d levels and %d entries, want %d and %d",
			ErrCorrupt, len(l.Heads), len(l.Entries), levels, entries)
	}
	for d, h := range l.Heads {
		if h != sparse.Head(len(l.Blocks), d) {
			return fmt.Errorf("%w: level %d head %d", ErrCorrupt, d, h)
		}
	}
	return nil
}

// header builds the header describing l, including the checksum.
func (l Layout[T]) header(s Sections) *Header {
	blocks, entries, pad, heads := l.sectionBytes(s)
	return &Header{
		Magic:        MagicNumber,
		Version:      Version,
		Kind:         KindOf[T](),
		BlockSize:    block.Size,
		Checksum:     checksumSections(blocks, entries, pad, heads),
		Length:       uint64(l.Length),
		NumBlocks:    uint64(s.NumBlocks),
		NumEntries:   uint64(s.NumEntries),
		NumLevels:    uint64(s.NumLevels),
		BlocksOffset: uint64(s.BlocksOffset),
		TableOffset:  uint64(s.TableOffset),
	}
}

func (l Layout[T]) sectionBytes(s Sections) (blocks, entries, pad, heads []byte) {
	padLen := s.HeadsOffset - (s.TableOffset + s.TableSize)
	return bytesOf(l.Blocks), bytesOf(l.Entries), zeroPad[:padLen], bytesOf(l.Heads)
}

func (l Layout[T]) prepare() (Sections, error) {
	if err := ValidatePlatform(); err != nil {
		return Sections{}, err
	}
	if KindOf[T]() == KindInvalid {
		return Sections{}, fmt.Errorf("%w: unsupported element type", ErrKindMismatch)
	}
	if err := l.Validate(); err != nil {
		return Sections{}, err
	}
	return SectionsOf[T](len(l.Blocks), len(l.Entries), len(l.Heads)), nil
}

// Encode writes l to w and returns the number of bytes written.
func Encode[T ordering.Element](w io.Writer, l Layout[T]) (int64, error) {
	s, err := l.prepare()
	if err != nil {
		return 0, err
	}

	var hdr [HeaderSize]byte
	if _, err := binary.Encode(hdr[:], binary.LittleEndian, l.header(s)); err != nil {
		return 0, err
	}

	blocks, entries, pad, heads := l.sectionBytes(s)
	var total int64
	for _, b := range [][]byte{hdr[:], blocks, entries, pad, heads} {
		if len(b) == 0 {
			continue
		}
		n, err := w.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Marshal encodes l into a fresh buffer aligned for Decode.
func Marshal[T ordering.Element](l Layout[T]) ([]byte, error) {
	s, err := l.prepare()
	if err != nil {
		return nil, err
	}

	buf := AlignedBuffer(s.TotalSize)
	if _, err := binary.Encode(buf[:HeaderSize], binary.LittleEndian, l.header(s)); err != nil {
		return nil, err
	}
	blocks, entries, _, heads := l.sectionBytes(s)
	copy(buf[s.BlocksOffset:], blocks)
	copy(buf[s.TableOffset:], entries)
	copy(buf[s.HeadsOffset:], heads)
	return buf, nil
}
