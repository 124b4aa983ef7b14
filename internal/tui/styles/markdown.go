package styles

import (
	"github.com/charmbracelet/glamour/v2"
)

// MarkdownRenderer returns a glamour renderer wrapping at width, using a
// named glamour style ("dracula", "dark", "light", ...).
func MarkdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if style == "" {
		style = "dracula"
	}
	return glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
}
