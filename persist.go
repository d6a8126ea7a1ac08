package rmq

import (
	"io"

	"github.com/hupe1980/rmq/persistence"
)

// MarshalBinary encodes the index into a buffer that Open accepts as is.
func (x *RMQ[T]) MarshalBinary() ([]byte, error) {
	return persistence.Marshal(x.layout())
}

// WriteTo writes the encoded index to w.
func (x *RMQ[T]) WriteTo(w io.Writer) (int64, error) {
	return persistence.Encode(w, x.layout())
}

// EncodedSize returns the number of bytes MarshalBinary produces.
func (x *RMQ[T]) EncodedSize() int {
	return x.layout().Size()
}

// SaveFile atomically writes the encoded index to path.
func (x *RMQ[T]) SaveFile(path string) error {
	return persistence.SaveToFile(path, func(w io.Writer) error {
		_, err := x.WriteTo(w)
		return err
	})
}
