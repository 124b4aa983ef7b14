package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the declared type of a setting.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindColor
	KindFloat
	KindFont
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindColor:
		return "color"
	case KindFloat:
		return "float"
	case KindFont:
		return "font"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// codec converts between a kind's text form and its Value. When fallback
// is set, a parse failure substitutes it instead of surfacing the error.
type codec struct {
	parse    func(string) (Value, error)
	fallback *Value
}

var (
	fallbackColor = ColorValue(Black)
	fallbackFont  = FontValue(DefaultFont)
)

var codecs = map[Kind]codec{
	KindString: {
		parse: func(s string) (Value, error) { return StringValue(s), nil },
	},
	KindBool: {
		parse: func(s string) (Value, error) {
			s = strings.TrimSpace(s)
			switch {
			case strings.EqualFold(s, "true"):
				return BoolValue(true), nil
			case strings.EqualFold(s, "false"):
				return BoolValue(false), nil
			}
			return Value{}, errors.New("want true or false")
		},
	},
	KindColor: {
		parse: func(s string) (Value, error) {
			c, err := ParseColor(s)
			if err != nil {
				return Value{}, err
			}
			return ColorValue(c), nil
		},
		fallback: &fallbackColor,
	},
	KindFloat: {
		parse: func(s string) (Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return Value{}, err
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return Value{}, errors.New("not a finite number")
			}
			return FloatValue(f), nil
		},
	},
	KindFont: {
		parse: func(s string) (Value, error) {
			f, err := ParseFont(s)
			if err != nil {
				return Value{}, err
			}
			return FontValue(f), nil
		},
		fallback: &fallbackFont,
	},
}

// Coerce converts text to a Value of kind k. The boolean reports whether a
// fallback replaced unparseable input; err is only set for kinds without
// one (bool, float).
func Coerce(k Kind, text string) (Value, bool, error) {
	c, ok := codecs[k]
	if !ok {
		return StringValue(text), false, nil
	}
	v, err := c.parse(text)
	if err == nil {
		return v, false, nil
	}
	if c.fallback != nil {
		return *c.fallback, true, nil
	}
	return Value{}, false, fmt.Errorf("parse %s %q: %w", k, text, err)
}
