package nbt

import (
	"bytes"
	"io"

	"github.com/OvercastCommunity/AutoPruner/compression"
)

// Marshal encodes tag as a root named name.
func Marshal(tag Tag, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(tag, name); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a single root tag from data.
func Unmarshal(data []byte) (NamedTag, error) {
	return NewDecoder(bytes.NewReader(data)).Decode()
}

// ReadCompressed decodes a root tag from a gzip-wrapped stream, the layout of standalone
// files such as level.dat.
func ReadCompressed(r io.Reader) (root NamedTag, err error) {
	zr, err := compression.NewReader(compression.Gzip, r)
	if err != nil {
		return root, err
	}
	defer zr.Close()
	return NewDecoder(zr).Decode()
}

// WriteCompressed encodes tag as a gzip-wrapped stream.
func WriteCompressed(w io.Writer, tag Tag, name string) (err error) {
	zw, err := compression.NewWriter(compression.Gzip, w)
	if err != nil {
		return err
	}
	if err = NewEncoder(zw).Encode(tag, name); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
