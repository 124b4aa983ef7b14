package settings

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a non-premultiplied ARGB color. It satisfies color.Color, so it
// can be handed to lipgloss as is.
type Color struct {
	A, R, G, B uint8
}

// Black is opaque black, the fallback for unparseable colors.
var Black = Color{A: 0xFF}

var errBadColor = errors.New("invalid color")

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// String formats the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// Hex formats the color as #RRGGBB, dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseColor accepts #AARRGGBB, #RRGGBB, #ARGB, #RGB and CSS color names.
// Missing alpha means opaque.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, errBadColor
	}

	if !strings.HasPrefix(s, "#") {
		name := strings.ToLower(s)
		if name == "transparent" {
			return Color{R: 0xFF, G: 0xFF, B: 0xFF}, nil
		}
		named, ok := colornames.Map[name]
		if !ok {
			return Color{}, fmt.Errorf("%w: unknown name %q", errBadColor, s)
		}
		return Color{A: named.A, R: named.R, G: named.G, B: named.B}, nil
	}

	digits := s[1:]
	for _, r := range digits {
		if !isHexDigit(r) {
			return Color{}, fmt.Errorf("%w: %q", errBadColor, s)
		}
	}

	alpha := "FF"
	switch len(digits) {
	case 3:
		digits = expandShortHex(digits)
	case 4:
		alpha = strings.Repeat(digits[:1], 2)
		digits = expandShortHex(digits[1:])
	case 6:
	case 8:
		alpha, digits = digits[:2], digits[2:]
	default:
		return Color{}, fmt.Errorf("%w: %q", errBadColor, s)
	}

	rgb, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", errBadColor, err)
	}
	a, err := strconv.ParseUint(alpha, 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", errBadColor, err)
	}

	r, g, b := rgb.RGB255()
	return Color{A: uint8(a), R: r, G: g, B: b}, nil
}

func expandShortHex(rgb string) string {
	var sb strings.Builder
	for _, r := range rgb {
		sb.WriteRune(r)
		sb.WriteRune(r)
	}
	return sb.String()
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
