// Package compression implements the byte-stream codecs used by region files and
// compressed NBT documents.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

var ErrUnsupportedCompression = errors.New("compression: unsupported compression type")

// Type is the one-byte compression selector stored in front of every chunk payload.
type Type byte

const (
	Gzip Type = 1
	Zlib Type = 2
	None Type = 3
)

func (t Type) Valid() bool {
	return t == Gzip || t == Zlib || t == None
}

func (t Type) String() string {
	switch t {
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	case None:
		return "none"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// NewReader wraps r with a decompressor for t. The caller must close the returned reader.
func NewReader(t Type, r io.Reader) (io.ReadCloser, error) {
	switch t {
	case Gzip:
		return gzip.NewReader(r)
	case Zlib:
		return zlib.NewReader(r)
	case None:
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, byte(t))
	}
}

// NewWriter wraps w with a compressor for t. Close must be called to flush the stream
// trailer; closing never closes w itself.
func NewWriter(t Type, w io.Writer) (io.WriteCloser, error) {
	switch t {
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zlib:
		return zlib.NewWriter(w), nil
	case None:
		return nopCloser{w}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, byte(t))
	}
}

// Compress returns data encoded with t.
func Compress(t Type, data []byte) ([]byte, error) {
	var out bytes.Buffer
	w, err := NewWriter(t, &out)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decompress returns data decoded with t.
func Decompress(t Type, data []byte) ([]byte, error) {
	r, err := NewReader(t, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
