package converter

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/m-mizutani/ratingcsv/internal/adaptor"
	"github.com/m-mizutani/ratingcsv/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TokenStream is ordered storage of tokens between parser and writer.
type TokenStream interface {
	Append(token models.Token) error
	// Each replays tokens in appended order. No token can be appended after Each.
	Each(fn func(token models.Token) error) error
	Len() int
	// Release frees resources of the stream.
	Release() error
}

// StreamFactory creates an empty TokenStream.
type StreamFactory func() (TokenStream, error)

// NewMemoryStream keeps all tokens on memory.
func NewMemoryStream() (TokenStream, error) {
	return &memoryStream{}, nil
}

type memoryStream struct {
	tokens []models.Token
}

func (x *memoryStream) Append(token models.Token) error {
	x.tokens = append(x.tokens, token)
	return nil
}

func (x *memoryStream) Each(fn func(token models.Token) error) error {
	for i := range x.tokens {
		if err := fn(x.tokens[i]); err != nil {
			return err
		}
	}
	return nil
}

func (x *memoryStream) Len() int       { return len(x.tokens) }
func (x *memoryStream) Release() error { x.tokens = nil; return nil }

// NewSpoolStreamFactory returns StreamFactory of streams that encode tokens
// into a temp file in dir ("" means os.TempDir) so that a huge source file
// does not have to fit in memory.
func NewSpoolStreamFactory(dir string, newEncoder adaptor.EncoderFactory, newDecoder adaptor.DecoderFactory) StreamFactory {
	return func() (TokenStream, error) {
		fd, err := ioutil.TempFile(dir, "ratingcsv-*.tokens")
		if err != nil {
			return nil, errors.Wrap(err, "Fail to create token spool file")
		}

		return &spoolStream{
			fd:         fd,
			encoder:    newEncoder(fd),
			newDecoder: newDecoder,
		}, nil
	}
}

type spoolStream struct {
	fd         *os.File
	encoder    adaptor.Encoder
	newDecoder adaptor.DecoderFactory
	count      int
	sealed     bool
}

func (x *spoolStream) Append(token models.Token) error {
	if x.sealed {
		return errors.New("Token spool is already sealed")
	}
	if err := x.encoder.Encode(&token); err != nil {
		return errors.Wrap(err, "Fail to encode token")
	}
	x.count++
	return nil
}

func (x *spoolStream) seal() error {
	if x.sealed {
		return nil
	}
	x.sealed = true

	if err := x.encoder.Close(); err != nil {
		return errors.Wrap(err, "Fail to close token encoder")
	}

	logger.WithFields(logrus.Fields{
		"path":   x.fd.Name(),
		"tokens": x.count,
		"size":   x.encoder.Size(),
	}).Debug("Sealed token spool")

	return nil
}

func (x *spoolStream) Each(fn func(token models.Token) error) error {
	if err := x.seal(); err != nil {
		return err
	}

	if _, err := x.fd.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "Fail to rewind token spool")
	}

	decoder, err := x.newDecoder(x.fd)
	if err != nil {
		return err
	}

	for i := 0; i < x.count; i++ {
		var token models.Token
		if err := decoder.Decode(&token); err != nil {
			return errors.Wrapf(err, "Fail to decode token #%d", i)
		}
		if err := fn(token); err != nil {
			return err
		}
	}

	return nil
}

func (x *spoolStream) Len() int { return x.count }

func (x *spoolStream) Release() error {
	if !x.sealed {
		x.sealed = true
		x.encoder.Close()
	}
	x.fd.Close()

	if err := os.Remove(x.fd.Name()); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "Fail to remove token spool: %s", x.fd.Name())
	}
	return nil
}
