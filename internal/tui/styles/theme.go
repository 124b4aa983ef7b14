package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the editor chrome palette. Chat colors come from the user's
// settings, not from here.
type Theme struct {
	Accent  color.Color
	FgBase  color.Color
	FgMuted color.Color
	Border  color.Color
	Success color.Color
	Error   color.Color

	styles *Styles
}

// Styles are the chrome styles derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
}

// DefaultTheme is the slate palette the editor ships with.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#F39C12"),
		FgBase:  lipgloss.Color("#F5F6FA"),
		FgMuted: lipgloss.Color("#A0A0A0"),
		Border:  lipgloss.Color("#5D6D7E"),
		Success: lipgloss.Color("#27AE60"),
		Error:   lipgloss.Color("#E74C3C"),
	}
}

// S returns the theme's styles, building them on first use.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Title:    base.Foreground(t.Accent).Bold(true),
		Label:    base.Bold(true),
		Value:    base,
		Selected: base.Foreground(t.Accent).Bold(true),
		Muted:    base.Foreground(t.FgMuted).Italic(true),
		Success:  base.Foreground(t.Success),
		Error:    base.Foreground(t.Error),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}

// Contrast picks near-white or near-black text for legibility on bg.
// Fully transparent backgrounds count as dark.
func Contrast(bg color.Color) color.Color {
	c, ok := colorful.MakeColor(bg)
	if !ok {
		return lipgloss.Color("#F5F6FA")
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return lipgloss.Color("#1E1E1E")
	}
	return lipgloss.Color("#F5F6FA")
}
