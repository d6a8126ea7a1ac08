package persistence

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/hupe1980/rmq/block"
	"github.com/hupe1980/rmq/ordering"
)

const (
	// MagicNumber identifies serialized range indexes (ASCII: "RMQ0").
	MagicNumber = 0x524d5130
	// Version is the current format version (v1.0.0).
	Version = 0x00010000

	// HeaderSize is the encoded size of Header.
	HeaderSize = 64
	// Alignment is the required alignment of buffers and sections.
	Alignment = 8
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrKindMismatch   = errors.New("element kind mismatch")
	// ErrCorrupt is wrapped by every structural validation failure.
	ErrCorrupt = errors.New("corrupt index")
)

// Kind enumerates the element types the format can hold.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64

	kindCount
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is a known element kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindCount
}

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// KindOf returns the kind describing T. int and uint map to their 64-bit
// kinds, the only width the supported platforms use.
func KindOf[T ordering.Element]() Kind {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64, reflect.Int:
		return KindInt64
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64, reflect.Uint:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	default:
		return KindInvalid
	}
}

// Header is the 64-byte header at the start of every serialized index.
type Header struct {
	Magic        uint32 // 0x524d5130 ("RMQ0")
	Version      uint32 // Format version
	Kind         Kind   // Element kind
	BlockSize    uint8  // Values per block (16)
	Flags        uint16 // Reserved, must be 0
	Checksum     uint32 // CRC32C of bytes [HeaderSize, end)
	Length       uint64 // Number of elements
	NumBlocks    uint64 // Number of block records
	NumEntries   uint64 // Number of sparse table entries
	NumLevels    uint64 // Number of sparse table levels
	BlocksOffset uint64 // Offset of the first block record
	TableOffset  uint64 // Offset of the first sparse table entry
}

// Sections describes where each section of an index of type T lives.
type Sections struct {
	BlocksOffset  int
	BlocksSize    int
	TableOffset   int
	TableSize     int
	HeadsOffset   int
	HeadsSize     int
	TotalSize     int
	NumBlocks     int
	NumEntries    int
	NumLevels     int
	BlockRecord   int
	EntryRecord   int
	ElementLength int
}

// Layout is the logical content of an index: the element count and the three
// sections, either owned or aliasing a validated buffer.
type Layout[T ordering.Element] struct {
	Length  int
	Blocks  []block.Block[T]
	Entries []ordering.Pair[T]
	Heads   []uint64
}

// SectionsOf computes the section geometry for a layout with the given counts.
func SectionsOf[T ordering.Element](numBlocks, numEntries, numLevels int) Sections {
	s := Sections{
		NumBlocks:   numBlocks,
		NumEntries:  numEntries,
		NumLevels:   numLevels,
		BlockRecord: int(unsafe.Sizeof(block.Block[T]{})),
		EntryRecord: int(unsafe.Sizeof(ordering.Pair[T]{})),
	}
	s.BlocksOffset = HeaderSize
	s.BlocksSize = numBlocks * s.BlockRecord
	s.TableOffset = s.BlocksOffset + s.BlocksSize
	s.TableSize = numEntries * s.EntryRecord
	s.HeadsOffset = align(s.TableOffset + s.TableSize)
	s.HeadsSize = numLevels * 8
	s.TotalSize = s.HeadsOffset + s.HeadsSize
	return s
}

// Size returns the encoded size of l in bytes.
func (l Layout[T]) Size() int {
	return SectionsOf[T](len(l.Blocks), len(l.Entries), len(l.Heads)).TotalSize
}

func align(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// numBlocksFor returns the number of blocks for length elements.
func numBlocksFor(length int) int {
	return (length + block.Size - 1) / block.Size
}
