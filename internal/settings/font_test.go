package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFont(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Font
		text  string
	}{
		{
			name:  "default",
			input: "Microsoft Sans Serif, 12pt",
			want:  DefaultFont,
			text:  "Microsoft Sans Serif, 12pt",
		},
		{
			name:  "fractional",
			input: "Segoe UI, 8.25pt",
			want:  Font{Family: "Segoe UI", Size: 8.25, Unit: UnitPoint},
			text:  "Segoe UI, 8.25pt",
		},
		{
			name:  "bare_number_is_points",
			input: "Consolas, 10",
			want:  Font{Family: "Consolas", Size: 10, Unit: UnitPoint},
			text:  "Consolas, 10pt",
		},
		{
			name:  "pixels",
			input: "Arial,14PX",
			want:  Font{Family: "Arial", Size: 14, Unit: UnitPixel},
			text:  "Arial, 14px",
		},
		{
			name:  "style",
			input: "Arial, 9pt, style=Bold, Italic",
			want:  Font{Family: "Arial", Size: 9, Unit: UnitPoint, Style: "Bold, Italic"},
			text:  "Arial, 9pt, style=Bold, Italic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFont(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
		})
	}
}

func TestParseFont_Invalid(t *testing.T) {
	for _, input := range []string{
		"not-a-font",
		", 12pt",
		"Arial, big",
		"Arial, 12furlongs",
		"Arial, -3pt",
		"Arial, 12pt, bold",
	} {
		_, err := ParseFont(input)
		assert.Error(t, err, input)
	}
}
