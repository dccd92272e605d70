package anvil

import (
	"errors"
	"fmt"

	"github.com/OvercastCommunity/AutoPruner/nbt"
)

// Section is a 16x16x16 slice of a chunk holding legacy block and light arrays.
type Section struct {
	root *nbt.Compound
	y    int8

	blocks     []byte
	add        []byte
	data       []byte
	blockLight []byte
	skyLight   []byte
}

// NewSection creates an empty section at height y.
func NewSection(y int8) *Section {
	return &Section{root: nbt.NewCompound(), y: y}
}

// ParseSection projects the section fields out of root. The Y tag may be any numeric
// variant; the block and light tags are optional but must be byte arrays when present.
func ParseSection(root *nbt.Compound) (*Section, error) {
	yTag, ok := root.Get("Y")
	if !ok {
		return nil, fmt.Errorf("%w: section has no Y", ErrInvalidState)
	}
	y, ok := nbt.Number(yTag)
	if !ok {
		return nil, fmt.Errorf("%w: section Y is %s", nbt.ErrTypeMismatch, yTag.Type())
	}

	s := &Section{root: root, y: int8(y)}
	fields := []struct {
		key string
		dst *[]byte
	}{
		{"Blocks", &s.blocks},
		{"Add", &s.add},
		{"Data", &s.data},
		{"BlockLight", &s.blockLight},
		{"SkyLight", &s.skyLight},
	}
	for _, f := range fields {
		v, err := optional(root.ByteArray(f.key))
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	return s, nil
}

func (s *Section) Y() int8 { return s.y }

func (s *Section) Blocks() []byte     { return s.blocks }
func (s *Section) Add() []byte        { return s.add }
func (s *Section) Data() []byte       { return s.data }
func (s *Section) BlockLight() []byte { return s.blockLight }
func (s *Section) SkyLight() []byte   { return s.skyLight }

func (s *Section) SetBlocks(v []byte)     { s.blocks = v }
func (s *Section) SetAdd(v []byte)        { s.add = v }
func (s *Section) SetData(v []byte)       { s.data = v }
func (s *Section) SetBlockLight(v []byte) { s.blockLight = v }
func (s *Section) SetSkyLight(v []byte)   { s.skyLight = v }

// IsEmpty reports whether the section holds no blocks: the block array is absent, or it and
// the optional overflow array are all zero.
func (s *Section) IsEmpty() bool {
	if s.blocks == nil {
		return true
	}
	for _, b := range s.blocks {
		if b != 0 {
			return false
		}
	}
	for _, b := range s.add {
		if b != 0 {
			return false
		}
	}
	return true
}

// Stamp writes the cached fields back into the section compound and returns it.
func (s *Section) Stamp() *nbt.Compound {
	s.root.PutByte("Y", s.y)
	putBytes(s.root, "Blocks", s.blocks)
	putBytes(s.root, "Add", s.add)
	putBytes(s.root, "Data", s.data)
	putBytes(s.root, "BlockLight", s.blockLight)
	putBytes(s.root, "SkyLight", s.skyLight)
	return s.root
}

func putBytes(c *nbt.Compound, key string, v []byte) {
	if v == nil {
		c.Remove(key)
		return
	}
	c.PutByteArray(key, v)
}

// optional drops nbt.ErrKeyNotFound, leaving the zero value for absent tags.
func optional[T any](v T, err error) (T, error) {
	if errors.Is(err, nbt.ErrKeyNotFound) {
		return v, nil
	}
	return v, err
}
