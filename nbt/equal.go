package nbt

import "math"

// Equal reports whether a and b are structurally identical. Compounds compare by key set
// regardless of order, lists compare element-wise, and floating point values compare by
// bit pattern.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case End:
		return true
	case Byte:
		return x == b.(Byte)
	case Short:
		return x == b.(Short)
	case Int:
		return x == b.(Int)
	case Long:
		return x == b.(Long)
	case Float:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Double)))
	case String:
		return x == b.(String)
	case ByteArray:
		y := b.(ByteArray)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case IntArray:
		y := b.(IntArray)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case LongArray:
		y := b.(LongArray)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case *List:
		y := b.(*List)
		if x.elem != y.elem || len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case *Compound:
		y := b.(*Compound)
		if len(x.values) != len(y.values) {
			return false
		}
		for k, v := range x.values {
			w, ok := y.values[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return false
}
