package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// FontUnit is the unit a font size is expressed in.
type FontUnit string

const (
	UnitPoint      FontUnit = "pt"
	UnitPixel      FontUnit = "px"
	UnitInch       FontUnit = "in"
	UnitMillimeter FontUnit = "mm"
	UnitEm         FontUnit = "em"
	UnitWorld      FontUnit = "world"
)

var knownUnits = map[FontUnit]bool{
	UnitPoint: true, UnitPixel: true, UnitInch: true,
	UnitMillimeter: true, UnitEm: true, UnitWorld: true,
}

// Font describes a typeface by family and size, with an optional style
// list such as "Bold, Italic".
type Font struct {
	Family string
	Size   float64
	Unit   FontUnit
	Style  string
}

// DefaultFont is the fallback for unparseable font descriptors.
var DefaultFont = Font{Family: "Microsoft Sans Serif", Size: 12, Unit: UnitPoint}

var errBadFont = errors.New("invalid font")

// String formats the font as "Family, 12pt" with ", style=..." appended
// when a style is set.
func (f Font) String() string {
	unit := f.Unit
	if unit == "" {
		unit = UnitPoint
	}
	s := f.Family + ", " + strconv.FormatFloat(f.Size, 'f', -1, 64) + string(unit)
	if f.Style != "" {
		s += ", style=" + f.Style
	}
	return s
}

// ParseFont reads "Family, size[unit][, style=Style[, Style]]". A bare
// number is taken as points.
func ParseFont(s string) (Font, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return Font{}, fmt.Errorf("%w: %q has no size", errBadFont, s)
	}

	family := strings.TrimSpace(parts[0])
	if family == "" {
		return Font{}, fmt.Errorf("%w: %q has no family", errBadFont, s)
	}

	size, unit, err := parseFontSize(strings.TrimSpace(parts[1]))
	if err != nil {
		return Font{}, fmt.Errorf("%w: %v", errBadFont, err)
	}

	f := Font{Family: family, Size: size, Unit: unit}

	if len(parts) > 2 {
		rest := strings.TrimSpace(strings.Join(parts[2:], ","))
		style, ok := strings.CutPrefix(rest, "style=")
		if !ok {
			return Font{}, fmt.Errorf("%w: unexpected %q", errBadFont, rest)
		}
		var styles []string
		for _, st := range strings.Split(style, ",") {
			if st = strings.TrimSpace(st); st != "" {
				styles = append(styles, st)
			}
		}
		f.Style = strings.Join(styles, ", ")
	}
	return f, nil
}

func parseFontSize(s string) (float64, FontUnit, error) {
	i := strings.IndexFunc(s, unicode.IsLetter)
	num, unit := s, UnitPoint
	if i >= 0 {
		num, unit = strings.TrimSpace(s[:i]), FontUnit(strings.ToLower(s[i:]))
	}
	if !knownUnits[unit] {
		return 0, "", fmt.Errorf("unknown unit %q", unit)
	}
	size, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", err
	}
	if size <= 0 {
		return 0, "", fmt.Errorf("size %v must be positive", size)
	}
	return size, unit, nil
}
