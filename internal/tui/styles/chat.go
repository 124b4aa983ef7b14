package styles

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/billie-coop/chatprefs/internal/settings"
)

// Zoom bounds applied to the preview; the stored value is not clamped.
const (
	MinZoom = 25.0
	MaxZoom = 400.0
)

// ChatLine is one line of the chat preview.
type ChatLine struct {
	Time   string
	Sender string
	Body   string
}

// Chat holds the styles the chat log is drawn with.
type Chat struct {
	Log       lipgloss.Style
	TimeStamp lipgloss.Style
	Sender    lipgloss.Style
	Body      lipgloss.Style
	Width     int
}

// ChatStyles derives chat styles from the current settings for a pane
// width columns wide.
func ChatStyles(store *settings.Store, width int) Chat {
	bg := store.ChatBackgroundColor()
	fg := Contrast(bg)
	font := store.ChatFont()

	body := lipgloss.NewStyle().Foreground(fg).Background(bg)
	if hasStyle(font, "bold") {
		body = body.Bold(true)
	}
	if hasStyle(font, "italic") {
		body = body.Italic(true)
	}
	if hasStyle(font, "underline") {
		body = body.Underline(true)
	}
	if hasStyle(font, "strikeout") {
		body = body.Strikethrough(true)
	}

	return Chat{
		Log: lipgloss.NewStyle().
			Background(bg).
			Padding(0, 1),
		TimeStamp: lipgloss.NewStyle().
			Foreground(store.TimeStampColor()).
			Background(bg),
		Sender: body.Bold(true),
		Body:   body,
		Width:  ZoomWidth(width, store.Zoom()),
	}
}

// ZoomWidth scales a wrap width inversely to zoom: 200% zoom fits half as
// many columns. Zoom is clamped to [MinZoom, MaxZoom].
func ZoomWidth(width int, zoom float64) int {
	if width <= 0 {
		return 0
	}
	if math.IsNaN(zoom) || zoom <= 0 {
		zoom = 100
	}
	zoom = math.Max(MinZoom, math.Min(MaxZoom, zoom))
	w := int(math.Round(float64(width) * 100 / zoom))
	return max(10, min(w, width))
}

// Render draws lines with the chat styles.
func (c Chat) Render(lines []ChatLine) string {
	var rows []string
	for _, line := range lines {
		row := c.TimeStamp.Render("["+line.Time+"] ") +
			c.Sender.Render(line.Sender+": ") +
			c.Body.Render(line.Body)
		rows = append(rows, row)
	}

	log := c.Log
	if c.Width > 0 {
		log = log.Width(c.Width)
	}
	return log.Render(strings.Join(rows, "\n"))
}

func hasStyle(f settings.Font, style string) bool {
	for _, s := range strings.Split(f.Style, ",") {
		if strings.EqualFold(strings.TrimSpace(s), style) {
			return true
		}
	}
	return false
}
