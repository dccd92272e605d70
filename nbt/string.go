package nbt

import (
	"regexp"
	"strconv"
	"strings"
)

var plainKey = regexp.MustCompile(`^[a-zA-Z0-9_\-+.]+$`)

func (End) String() string      { return "end" }
func (t Byte) String() string   { return strconv.FormatInt(int64(t), 10) + "b" }
func (t Short) String() string  { return strconv.FormatInt(int64(t), 10) + "s" }
func (t Int) String() string    { return strconv.FormatInt(int64(t), 10) }
func (t Long) String() string   { return strconv.FormatInt(int64(t), 10) + "l" }
func (t Float) String() string  { return strconv.FormatFloat(float64(t), 'g', -1, 32) + "f" }
func (t Double) String() string { return strconv.FormatFloat(float64(t), 'g', -1, 64) + "d" }
func (t String) String() string { return quote(string(t)) }

func (t ByteArray) String() string {
	var sb strings.Builder
	sb.WriteString("[B;")
	for i, v := range t {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(int64(int8(v)), 10))
		sb.WriteByte('b')
	}
	sb.WriteByte(']')
	return sb.String()
}

func (t IntArray) String() string {
	var sb strings.Builder
	sb.WriteString("[I;")
	for i, v := range t {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (t LongArray) String() string {
	var sb strings.Builder
	sb.WriteString("[L;")
	for i, v := range t {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(v, 10))
		sb.WriteByte('l')
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range l.items {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (c *Compound) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		if plainKey.MatchString(k) {
			sb.WriteString(k)
		} else {
			sb.WriteString(quote(k))
		}
		sb.WriteByte(':')
		sb.WriteString(c.values[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
