package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32CKnownValue(t *testing.T) {
	// RFC 3720 check value for "123456789".
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32C(nil))
}

func TestUpdateCRC32CChains(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	crc := UpdateCRC32C(0, data[:10])
	crc = UpdateCRC32C(crc, data[10:])
	assert.Equal(t, CRC32C(data), crc)

	h := NewCRC32C()
	_, _ = h.Write(data[:3])
	_, _ = h.Write(data[3:])
	assert.Equal(t, CRC32C(data), h.Sum32())
}
