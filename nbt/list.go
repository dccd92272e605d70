package nbt

import "fmt"

// List is an ordered sequence of tags sharing one element type. An empty list created
// with TagEnd adopts the type of its first element.
type List struct {
	elem  Type
	items []Tag
}

// NewList creates a list of elem holding items. Every item must be of type elem.
func NewList(elem Type, items ...Tag) (*List, error) {
	if !elem.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTagType, byte(elem))
	}
	l := &List{elem: elem, items: make([]Tag, 0, len(items))}
	for _, item := range items {
		if err := l.Append(item); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (*List) Type() Type { return TagList }
func (*List) isTag()     {}

// ElemType returns the declared element type, TagEnd for a list that never held an element.
func (l *List) ElemType() Type {
	return l.elem
}

func (l *List) Len() int {
	return len(l.items)
}

// Index returns the i'th element. It panics if i is out of range, like a slice index.
func (l *List) Index(i int) Tag {
	return l.items[i]
}

// Items returns a copy of the element slice. The elements themselves are shared.
func (l *List) Items() []Tag {
	return append([]Tag(nil), l.items...)
}

// Append adds t to the end of the list. It fails with ErrTypeMismatch when t does not match
// the declared element type.
func (l *List) Append(t Tag) error {
	if t == nil {
		return fmt.Errorf("%w: nil list element", ErrInvalidState)
	}
	typ := t.Type()
	if typ == TagEnd {
		return fmt.Errorf("%w: cannot append %s to a list", ErrTypeMismatch, typ)
	}
	if l.elem == TagEnd && len(l.items) == 0 {
		l.elem = typ
	} else if typ != l.elem {
		return fmt.Errorf("%w: cannot append %s to list of %s", ErrTypeMismatch, typ, l.elem)
	}
	l.items = append(l.items, t)
	return nil
}

// Set replaces the i'th element, enforcing the element type like Append.
func (l *List) Set(i int, t Tag) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidState, i, len(l.items))
	}
	if t == nil || t.Type() != l.elem {
		return fmt.Errorf("%w: list of %s", ErrTypeMismatch, l.elem)
	}
	l.items[i] = t
	return nil
}

// Remove deletes the i'th element and returns it.
func (l *List) Remove(i int) Tag {
	t := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return t
}

// Compounds returns the elements as compounds, failing with ErrTypeMismatch on a list of
// any other non-empty type.
func (l *List) Compounds() ([]*Compound, error) {
	if len(l.items) > 0 && l.elem != TagCompound {
		return nil, fmt.Errorf("%w: list of %s is not a list of %s", ErrTypeMismatch, l.elem, TagCompound)
	}
	out := make([]*Compound, len(l.items))
	for i, item := range l.items {
		out[i] = item.(*Compound)
	}
	return out, nil
}

func (l *List) Clone() Tag {
	c := &List{elem: l.elem, items: make([]Tag, len(l.items))}
	for i, item := range l.items {
		c.items[i] = item.Clone()
	}
	return c
}

// validate re-checks element homogeneity before encoding.
func (l *List) validate() error {
	if !l.elem.Valid() {
		return fmt.Errorf("%w: list element type %d", ErrInvalidState, byte(l.elem))
	}
	if l.elem == TagEnd && len(l.items) > 0 {
		return fmt.Errorf("%w: list of %s holds %d elements", ErrInvalidState, TagEnd, len(l.items))
	}
	for i, item := range l.items {
		if item == nil || item.Type() != l.elem {
			return fmt.Errorf("%w: element %d does not match list of %s", ErrInvalidState, i, l.elem)
		}
	}
	return nil
}
