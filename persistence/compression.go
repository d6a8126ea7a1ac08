package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the algorithm of the compression envelope.
type Compression uint8

const (
	// CompressionNone stores the index as is; it can be opened zero-copy.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot data).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio, good for cold data).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

const (
	// EnvelopeMagic identifies compressed payloads (ASCII: "RMQZ").
	EnvelopeMagic = 0x524d515a
	// EnvelopeHeaderSize is the size of the envelope header.
	EnvelopeHeaderSize = 24

	// maxUncompressedSize bounds the allocation a corrupt envelope can request.
	maxUncompressedSize = 1 << 40

	// An LZ4 sequence yields at most 255 bytes per input byte.
	lz4MaxRatio = 255
	// A 4-byte zstd RLE block yields at most one 128 KiB block.
	zstdMaxRatio = (128 << 10) / 4
)

// ErrUnknownCompression is returned for envelope types this build cannot read.
var ErrUnknownCompression = errors.New("unknown compression type")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecodeAllCapLimit(true))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// IsCompressed reports whether data starts with a compression envelope.
func IsCompressed(data []byte) bool {
	return len(data) >= EnvelopeHeaderSize && binary.LittleEndian.Uint32(data) == EnvelopeMagic
}

// Compress wraps data in an envelope compressed with c.
// Returns data unchanged if c is CompressionNone or compression doesn't help.
//
// Envelope: [Magic uint32][Type uint8][reserved 3][Uncompressed uint64][Compressed uint64][payload]
func Compress(data []byte, c Compression) ([]byte, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, nil
	}

	var payload []byte
	switch c {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, err
		}
		payload = dst[:n] // n == 0: incompressible
	case CompressionZSTD:
		enc := getZstdEncoder()
		payload = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	if len(payload) == 0 || len(payload)+EnvelopeHeaderSize >= len(data) {
		return data, nil
	}

	out := make([]byte, EnvelopeHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], EnvelopeMagic)
	out[4] = byte(c)
	binary.LittleEndian.PutUint64(out[8:], uint64(len(data)))
	binary.LittleEndian.PutUint64(out[16:], uint64(len(payload)))
	copy(out[EnvelopeHeaderSize:], payload)
	return out, nil
}

// Decompress returns the index held by data, unwrapping a compression
// envelope if present. The result is always aligned for Decode; data is
// returned as is when it is a raw, aligned index.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return Aligned(data), nil
	}

	c := Compression(data[4])
	uncompressed := binary.LittleEndian.Uint64(data[8:])
	compressed := binary.LittleEndian.Uint64(data[16:])
	if compressed != uint64(len(data)-EnvelopeHeaderSize) {
		return nil, fmt.Errorf("%w: envelope payload is %d bytes, header says %d", ErrCorrupt, len(data)-EnvelopeHeaderSize, compressed)
	}
	if uncompressed > maxUncompressedSize {
		return nil, fmt.Errorf("%w: envelope claims %d uncompressed bytes", ErrCorrupt, uncompressed)
	}

	payload := data[EnvelopeHeaderSize:]
	if err := checkExpansion(c, payload, uncompressed); err != nil {
		return nil, err
	}
	out := AlignedBuffer(int(uncompressed))

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
		}
		if uint64(n) != uncompressed {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, out[:0:uncompressed])
		putZstdDecoder(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
		}
		if uint64(len(decoded)) != uncompressed {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		// DecodeAll only reallocates when the output outgrows out.
		out = Aligned(decoded)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
	return out, nil
}

// checkExpansion rejects envelopes whose claimed size exceeds what the
// payload can decode to, before any output is allocated.
func checkExpansion(c Compression, payload []byte, uncompressed uint64) error {
	var ratio uint64
	switch c {
	case CompressionLZ4:
		ratio = lz4MaxRatio
	case CompressionZSTD:
		var h zstd.Header
		if err := h.Decode(payload); err != nil {
			return fmt.Errorf("%w: zstd header: %v", ErrCorrupt, err)
		}
		if h.HasFCS && h.FrameContentSize != uncompressed {
			return fmt.Errorf("%w: zstd frame holds %d bytes, envelope says %d", ErrCorrupt, h.FrameContentSize, uncompressed)
		}
		ratio = zstdMaxRatio
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
	if uncompressed > uint64(len(payload))*ratio {
		return fmt.Errorf("%w: envelope claims %d uncompressed bytes from %d", ErrCorrupt, uncompressed, len(payload))
	}
	return nil
}
