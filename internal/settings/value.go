package settings

import (
	"math"
	"strconv"
)

// Value is a setting value tagged with its kind. The zero Value is an
// empty string.
type Value struct {
	kind Kind
	b    bool
	f    float64
	s    string
	c    Color
	font Font
}

func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func ColorValue(c Color) Value   { return Value{kind: KindColor, c: c} }
func FontValue(f Font) Value     { return Value{kind: KindFont, font: f} }

// Kind reports which accessor carries the value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() bool     { return v.b }
func (v Value) Float() float64 { return v.f }
func (v Value) Color() Color   { return v.c }
func (v Value) Font() Font     { return v.font }

// String returns the persisted text form.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindColor:
		return v.c.String()
	case KindFont:
		return v.font.String()
	default:
		return v.s
	}
}

// Equal compares kind and payload. Two NaN floats are equal.
func (v Value) Equal(o Value) bool {
	if v.kind == KindFloat && o.kind == KindFloat && math.IsNaN(v.f) && math.IsNaN(o.f) {
		return true
	}
	return v == o
}
