// Package nbt implements the named binary tag format: a closed set of tag variants, an
// insertion-ordered compound, a homogeneous list, and a depth-bounded stream codec.
package nbt

import "fmt"

// Type is the wire id of a tag variant.
type Type byte

const (
	TagEnd Type = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var typeNames = [...]string{
	TagEnd:       "TAG_End",
	TagByte:      "TAG_Byte",
	TagShort:     "TAG_Short",
	TagInt:       "TAG_Int",
	TagLong:      "TAG_Long",
	TagFloat:     "TAG_Float",
	TagDouble:    "TAG_Double",
	TagByteArray: "TAG_Byte_Array",
	TagString:    "TAG_String",
	TagList:      "TAG_List",
	TagCompound:  "TAG_Compound",
	TagIntArray:  "TAG_Int_Array",
	TagLongArray: "TAG_Long_Array",
}

func (t Type) Valid() bool {
	return t <= TagLongArray
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("TAG_Unknown(%d)", byte(t))
}

// Tag is implemented by every tag variant in this package and by nothing else.
type Tag interface {
	// Type returns the wire id of the variant.
	Type() Type
	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Tag
	String() string

	isTag()
}

type (
	End       struct{}
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

func (End) Type() Type       { return TagEnd }
func (Byte) Type() Type      { return TagByte }
func (Short) Type() Type     { return TagShort }
func (Int) Type() Type       { return TagInt }
func (Long) Type() Type      { return TagLong }
func (Float) Type() Type     { return TagFloat }
func (Double) Type() Type    { return TagDouble }
func (ByteArray) Type() Type { return TagByteArray }
func (String) Type() Type    { return TagString }
func (IntArray) Type() Type  { return TagIntArray }
func (LongArray) Type() Type { return TagLongArray }

func (t End) Clone() Tag    { return t }
func (t Byte) Clone() Tag   { return t }
func (t Short) Clone() Tag  { return t }
func (t Int) Clone() Tag    { return t }
func (t Long) Clone() Tag   { return t }
func (t Float) Clone() Tag  { return t }
func (t Double) Clone() Tag { return t }
func (t String) Clone() Tag { return t }

func (t ByteArray) Clone() Tag {
	if t == nil {
		return ByteArray(nil)
	}
	return append(ByteArray(make([]byte, 0, len(t))), t...)
}

func (t IntArray) Clone() Tag {
	if t == nil {
		return IntArray(nil)
	}
	return append(IntArray(make([]int32, 0, len(t))), t...)
}

func (t LongArray) Clone() Tag {
	if t == nil {
		return LongArray(nil)
	}
	return append(LongArray(make([]int64, 0, len(t))), t...)
}

func (End) isTag()       {}
func (Byte) isTag()      {}
func (Short) isTag()     {}
func (Int) isTag()       {}
func (Long) isTag()      {}
func (Float) isTag()     {}
func (Double) isTag()    {}
func (ByteArray) isTag() {}
func (String) isTag()    {}
func (IntArray) isTag()  {}
func (LongArray) isTag() {}

// NamedTag is the root of every NBT stream.
type NamedTag struct {
	Name string
	Tag  Tag
}

// Number returns the value of any integral or floating point tag as an int64, truncating
// floating point values. ok is false for non-numeric tags.
func Number(t Tag) (v int64, ok bool) {
	switch n := t.(type) {
	case Byte:
		return int64(n), true
	case Short:
		return int64(n), true
	case Int:
		return int64(n), true
	case Long:
		return int64(n), true
	case Float:
		return int64(n), true
	case Double:
		return int64(n), true
	}
	return 0, false
}
