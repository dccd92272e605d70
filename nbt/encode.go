package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encoder writes named tag trees to a byte stream.
type Encoder struct {
	w        *bufio.Writer
	maxDepth int
	scratch  [8]byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), maxDepth: DefaultMaxDepth}
}

// SetMaxDepth changes the nesting bound. Non-positive values restore the default.
func (e *Encoder) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	e.maxDepth = depth
}

// Encode writes tag as a root named name and flushes the underlying writer.
func (e *Encoder) Encode(tag Tag, name string) (err error) {
	if tag == nil {
		return fmt.Errorf("%w: nil root tag", ErrInvalidState)
	}
	if err = e.writeByte(byte(tag.Type())); err != nil {
		return
	}
	if tag.Type() != TagEnd {
		if err = e.writeString(name); err != nil {
			return
		}
		if err = e.writePayload(tag, e.maxDepth); err != nil {
			return
		}
	}
	return e.w.Flush()
}

func (e *Encoder) writePayload(tag Tag, depth int) (err error) {
	switch t := tag.(type) {
	case Byte:
		return e.writeByte(byte(t))
	case Short:
		binary.BigEndian.PutUint16(e.scratch[:2], uint16(t))
		return e.write(e.scratch[:2])
	case Int:
		return e.writeUint32(uint32(t))
	case Long:
		return e.writeUint64(uint64(t))
	case Float:
		return e.writeUint32(math.Float32bits(float32(t)))
	case Double:
		return e.writeUint64(math.Float64bits(float64(t)))
	case ByteArray:
		if err = e.writeLength(len(t)); err != nil {
			return
		}
		return e.write(t)
	case String:
		return e.writeString(string(t))
	case IntArray:
		if err = e.writeLength(len(t)); err != nil {
			return
		}
		for _, v := range t {
			if err = e.writeUint32(uint32(v)); err != nil {
				return
			}
		}
		return nil
	case LongArray:
		if err = e.writeLength(len(t)); err != nil {
			return
		}
		for _, v := range t {
			if err = e.writeUint64(uint64(v)); err != nil {
				return
			}
		}
		return nil
	case *List:
		return e.writeList(t, depth)
	case *Compound:
		return e.writeCompound(t, depth)
	case End:
		return fmt.Errorf("%w: %s payload inside a structure", ErrInvalidState, TagEnd)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidTagType, tag)
	}
}

func (e *Encoder) writeList(l *List, depth int) (err error) {
	if err = l.validate(); err != nil {
		return
	}
	if err = e.writeByte(byte(l.elem)); err != nil {
		return
	}
	if err = e.writeLength(len(l.items)); err != nil {
		return
	}
	var child int
	for _, item := range l.items {
		if child, err = descend(depth); err != nil {
			return
		}
		if err = e.writePayload(item, child); err != nil {
			return
		}
	}
	return nil
}

func (e *Encoder) writeCompound(c *Compound, depth int) (err error) {
	var child int
	for _, key := range c.keys {
		value := c.values[key]
		if value == nil || value.Type() == TagEnd {
			return fmt.Errorf("%w: compound key %q holds no value", ErrInvalidState, key)
		}
		if err = e.writeByte(byte(value.Type())); err != nil {
			return
		}
		if err = e.writeString(key); err != nil {
			return
		}
		if child, err = descend(depth); err != nil {
			return
		}
		if err = e.writePayload(value, child); err != nil {
			return
		}
	}
	return e.writeByte(byte(TagEnd))
}

func (e *Encoder) write(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) writeByte(b byte) error {
	return e.w.WriteByte(b)
}

func (e *Encoder) writeUint32(v uint32) error {
	binary.BigEndian.PutUint32(e.scratch[:4], v)
	return e.write(e.scratch[:4])
}

func (e *Encoder) writeUint64(v uint64) error {
	binary.BigEndian.PutUint64(e.scratch[:8], v)
	return e.write(e.scratch[:8])
}

func (e *Encoder) writeLength(n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("%w: %d elements", ErrInvalidLength, n)
	}
	return e.writeUint32(uint32(n))
}

func (e *Encoder) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	binary.BigEndian.PutUint16(e.scratch[:2], uint16(len(s)))
	if err := e.write(e.scratch[:2]); err != nil {
		return err
	}
	_, err := e.w.WriteString(s)
	return err
}
