package tui

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// TextInput is a single-line editor for setting values
type TextInput struct {
	value     []rune
	cursorPos int
	focused   bool
}

// NewTextInput creates an empty, unfocused input
func NewTextInput() *TextInput {
	return &TextInput{}
}

// Value returns the current text
func (t *TextInput) Value() string {
	return string(t.value)
}

// SetValue replaces the text and moves the cursor to the end
func (t *TextInput) SetValue(value string) {
	t.value = []rune(value)
	t.cursorPos = len(t.value)
}

// Focus focuses the input
func (t *TextInput) Focus() {
	t.focused = true
}

// Blur removes focus
func (t *TextInput) Blur() {
	t.focused = false
}

// Focused reports whether the input takes keys
func (t *TextInput) Focused() bool {
	return t.focused
}

// Update handles editing keys while focused
func (t *TextInput) Update(msg tea.Msg) tea.Cmd {
	if !t.focused {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		t.handleKey(msg.String())
	}
	return nil
}

func (t *TextInput) handleKey(k string) {
	switch k {
	case "backspace":
		if t.cursorPos > 0 {
			t.value = append(t.value[:t.cursorPos-1], t.value[t.cursorPos:]...)
			t.cursorPos--
		}
	case "delete":
		if t.cursorPos < len(t.value) {
			t.value = append(t.value[:t.cursorPos], t.value[t.cursorPos+1:]...)
		}
	case "left":
		if t.cursorPos > 0 {
			t.cursorPos--
		}
	case "right":
		if t.cursorPos < len(t.value) {
			t.cursorPos++
		}
	case "home", "ctrl+a":
		t.cursorPos = 0
	case "end", "ctrl+e":
		t.cursorPos = len(t.value)
	case "ctrl+u":
		t.value = t.value[t.cursorPos:]
		t.cursorPos = 0
	case "space":
		t.insert(' ')
	default:
		if utf8.RuneCountInString(k) == 1 {
			r, _ := utf8.DecodeRuneInString(k)
			t.insert(r)
		}
	}
}

func (t *TextInput) insert(r rune) {
	t.value = append(t.value[:t.cursorPos], append([]rune{r}, t.value[t.cursorPos:]...)...)
	t.cursorPos++
}

var cursorStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("205")).
	Foreground(lipgloss.Color("0"))

// View renders the input with a block cursor when focused
func (t *TextInput) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	if !t.focused {
		return style.Render(string(t.value))
	}

	before := string(t.value[:t.cursorPos])
	if t.cursorPos < len(t.value) {
		at := string(t.value[t.cursorPos])
		after := string(t.value[t.cursorPos+1:])
		return style.Render(before) + cursorStyle.Render(at) + style.Render(after)
	}
	return style.Render(before) + cursorStyle.Render(" ")
}
