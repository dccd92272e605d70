package nbt

import "fmt"

// Compound maps unique names to tags. Keys keep their insertion order so that a decoded
// compound encodes back to the same bytes; order is not part of equality.
type Compound struct {
	keys   []string
	values map[string]Tag
}

func NewCompound() *Compound {
	return &Compound{values: make(map[string]Tag)}
}

func (*Compound) Type() Type { return TagCompound }
func (*Compound) isTag()     {}

func (c *Compound) Len() int {
	return len(c.keys)
}

// Keys returns the keys in insertion order.
func (c *Compound) Keys() []string {
	return append([]string(nil), c.keys...)
}

func (c *Compound) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Get returns the tag stored under key.
func (c *Compound) Get(key string) (Tag, bool) {
	t, ok := c.values[key]
	return t, ok
}

// Put stores t under key, replacing any previous value while keeping its position. A nil
// tag removes the key.
func (c *Compound) Put(key string, t Tag) {
	if t == nil {
		c.Remove(key)
		return
	}
	if c.values == nil {
		c.values = make(map[string]Tag)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = t
}

// Remove deletes key and returns the previous value, if any.
func (c *Compound) Remove(key string) (Tag, bool) {
	t, ok := c.values[key]
	if !ok {
		return nil, false
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return t, true
}

func (c *Compound) Clone() Tag {
	out := &Compound{keys: c.Keys(), values: make(map[string]Tag, len(c.values))}
	for k, v := range c.values {
		out.values[k] = v.Clone()
	}
	return out
}

// Get returns the tag stored under key as a T. It fails with ErrKeyNotFound when the key is
// absent and ErrTypeMismatch when the stored tag is of another type.
func Get[T Tag](c *Compound, key string) (T, error) {
	var zero T
	t, ok := c.values[key]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	v, ok := t.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %s, want %T", ErrTypeMismatch, key, t.Type(), zero)
	}
	return v, nil
}

func (c *Compound) Byte(key string) (int8, error) {
	v, err := Get[Byte](c, key)
	return int8(v), err
}

func (c *Compound) Short(key string) (int16, error) {
	v, err := Get[Short](c, key)
	return int16(v), err
}

func (c *Compound) Int(key string) (int32, error) {
	v, err := Get[Int](c, key)
	return int32(v), err
}

func (c *Compound) Long(key string) (int64, error) {
	v, err := Get[Long](c, key)
	return int64(v), err
}

func (c *Compound) Float(key string) (float32, error) {
	v, err := Get[Float](c, key)
	return float32(v), err
}

func (c *Compound) Double(key string) (float64, error) {
	v, err := Get[Double](c, key)
	return float64(v), err
}

func (c *Compound) Text(key string) (string, error) {
	v, err := Get[String](c, key)
	return string(v), err
}

func (c *Compound) ByteArray(key string) ([]byte, error) {
	v, err := Get[ByteArray](c, key)
	return []byte(v), err
}

func (c *Compound) IntArray(key string) ([]int32, error) {
	v, err := Get[IntArray](c, key)
	return []int32(v), err
}

func (c *Compound) LongArray(key string) ([]int64, error) {
	v, err := Get[LongArray](c, key)
	return []int64(v), err
}

func (c *Compound) List(key string) (*List, error) {
	return Get[*List](c, key)
}

func (c *Compound) Compound(key string) (*Compound, error) {
	return Get[*Compound](c, key)
}

func (c *Compound) PutByte(key string, v int8)         { c.Put(key, Byte(v)) }
func (c *Compound) PutShort(key string, v int16)       { c.Put(key, Short(v)) }
func (c *Compound) PutInt(key string, v int32)         { c.Put(key, Int(v)) }
func (c *Compound) PutLong(key string, v int64)        { c.Put(key, Long(v)) }
func (c *Compound) PutFloat(key string, v float32)     { c.Put(key, Float(v)) }
func (c *Compound) PutDouble(key string, v float64)    { c.Put(key, Double(v)) }
func (c *Compound) PutString(key string, v string)     { c.Put(key, String(v)) }
func (c *Compound) PutByteArray(key string, v []byte)  { c.Put(key, ByteArray(v)) }
func (c *Compound) PutIntArray(key string, v []int32)  { c.Put(key, IntArray(v)) }
func (c *Compound) PutLongArray(key string, v []int64) { c.Put(key, LongArray(v)) }
