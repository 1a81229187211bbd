package adaptor

import (
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// DecoderFactory is constructor type of Decoder
type DecoderFactory func(r io.Reader) (Decoder, error)

// Decoder reads values written by Encoder. Decode returns io.EOF at end of stream.
type Decoder interface {
	Decode(v interface{}) error
}

// NewMsgpackDecoder creates Decoder of gzip compressed msgpack stream.
func NewMsgpackDecoder(r io.Reader) (Decoder, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to open gzip stream")
	}
	return msgpack.NewDecoder(gr), nil
}
