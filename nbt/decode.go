package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultMaxDepth bounds the nesting of lists and compounds accepted by a Decoder.
const DefaultMaxDepth = 512

// Arrays larger than this are read incrementally so that a corrupt length cannot force a
// huge allocation before the stream runs dry.
const allocChunk = 1 << 20

// Decoder reads a named tag tree from a byte stream.
type Decoder struct {
	r        io.Reader
	maxDepth int
	scratch  [8]byte
}

// NewDecoder returns a decoder reading from r. Reads are buffered unless r is already an
// io.ByteReader, so the decoder may consume bytes past the end of the root tag.
func NewDecoder(r io.Reader) *Decoder {
	if _, ok := r.(io.ByteReader); !ok {
		r = bufio.NewReader(r)
	}
	return &Decoder{r: r, maxDepth: DefaultMaxDepth}
}

// SetMaxDepth changes the nesting bound. Non-positive values restore the default.
func (d *Decoder) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	d.maxDepth = depth
}

// Decode reads one root tag. It returns io.EOF when the stream is empty and
// io.ErrUnexpectedEOF when it ends inside the tag.
func (d *Decoder) Decode() (root NamedTag, err error) {
	id, err := d.readByte()
	if err != nil {
		return root, err
	}
	typ := Type(id)
	if typ == TagEnd {
		root.Tag = End{}
		return root, nil
	}
	if root.Name, err = d.readString(); err != nil {
		return root, unexpected(err)
	}
	if root.Tag, err = d.readPayload(typ, d.maxDepth); err != nil {
		return root, unexpected(err)
	}
	return root, nil
}

func (d *Decoder) readPayload(typ Type, depth int) (Tag, error) {
	switch typ {
	case TagByte:
		b, err := d.readByte()
		return Byte(int8(b)), err
	case TagShort:
		v, err := d.readUint16()
		return Short(int16(v)), err
	case TagInt:
		v, err := d.readUint32()
		return Int(int32(v)), err
	case TagLong:
		v, err := d.readUint64()
		return Long(int64(v)), err
	case TagFloat:
		v, err := d.readUint32()
		return Float(math.Float32frombits(v)), err
	case TagDouble:
		v, err := d.readUint64()
		return Double(math.Float64frombits(v)), err
	case TagByteArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		b, err := d.readBytes(n)
		return ByteArray(b), err
	case TagString:
		s, err := d.readString()
		return String(s), err
	case TagIntArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		b, err := d.readBytes(n * 4)
		if err != nil {
			return nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			out[i] = int32(binary.BigEndian.Uint32(b[i*4:]))
		}
		return out, nil
	case TagLongArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		b, err := d.readBytes(n * 8)
		if err != nil {
			return nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			out[i] = int64(binary.BigEndian.Uint64(b[i*8:]))
		}
		return out, nil
	case TagList:
		return d.readList(depth)
	case TagCompound:
		return d.readCompound(depth)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidTagType, byte(typ))
	}
}

func (d *Decoder) readList(depth int) (*List, error) {
	id, err := d.readByte()
	if err != nil {
		return nil, err
	}
	elem := Type(id)
	if !elem.Valid() {
		return nil, fmt.Errorf("%w: list element type %d", ErrInvalidTagType, id)
	}
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	if elem == TagEnd && n > 0 {
		return nil, fmt.Errorf("%w: list of %s with %d elements", ErrInvalidTagType, TagEnd, n)
	}
	l := &List{elem: elem, items: make([]Tag, 0, min(n, 1024))}
	for i := 0; i < n; i++ {
		child, err := descend(depth)
		if err != nil {
			return nil, err
		}
		item, err := d.readPayload(elem, child)
		if err != nil {
			return nil, err
		}
		l.items = append(l.items, item)
	}
	return l, nil
}

func (d *Decoder) readCompound(depth int) (*Compound, error) {
	c := NewCompound()
	for {
		id, err := d.readByte()
		if err != nil {
			return nil, err
		}
		typ := Type(id)
		if typ == TagEnd {
			return c, nil
		}
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidTagType, id)
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		child, err := descend(depth)
		if err != nil {
			return nil, err
		}
		value, err := d.readPayload(typ, child)
		if err != nil {
			return nil, err
		}
		c.Put(name, value)
	}
}

// descend returns the depth budget of a child element.
func descend(depth int) (int, error) {
	if depth <= 0 {
		return 0, ErrMaxDepthExceeded
	}
	return depth - 1, nil
}

func (d *Decoder) readByte() (byte, error) {
	if br, ok := d.r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	if _, err := io.ReadFull(d.r, d.scratch[:1]); err != nil {
		return 0, err
	}
	return d.scratch[0], nil
}

func (d *Decoder) readUint16() (uint16, error) {
	if _, err := io.ReadFull(d.r, d.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(d.scratch[:2]), nil
}

func (d *Decoder) readUint32() (uint32, error) {
	if _, err := io.ReadFull(d.r, d.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(d.scratch[:4]), nil
}

func (d *Decoder) readUint64() (uint64, error) {
	if _, err := io.ReadFull(d.r, d.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(d.scratch[:8]), nil
}

// readLength reads a signed 32-bit element count.
func (d *Decoder) readLength() (int, error) {
	v, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	n := int32(v)
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return int(n), nil
}

func (d *Decoder) readString() (string, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	b, err := d.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) readBytes(n int) ([]byte, error) {
	if n <= allocChunk {
		b := make([]byte, n)
		if _, err := io.ReadFull(d.r, b); err != nil {
			return nil, err
		}
		return b, nil
	}
	var buf bytes.Buffer
	copied, err := io.CopyN(&buf, d.r, int64(n))
	if err != nil {
		if errors.Is(err, io.EOF) && copied < int64(n) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// unexpected converts a clean EOF inside a tag into io.ErrUnexpectedEOF.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
