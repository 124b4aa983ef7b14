package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextInput_Editing(t *testing.T) {
	in := NewTextInput()
	in.SetValue("Arial")
	in.Focus()

	for _, k := range []string{",", "space", "9", "p", "t"} {
		in.handleKey(k)
	}
	assert.Equal(t, "Arial, 9pt", in.Value())

	in.handleKey("home")
	in.handleKey("delete")
	in.handleKey("å")
	assert.Equal(t, "årial, 9pt", in.Value())

	in.handleKey("end")
	in.handleKey("backspace")
	in.handleKey("backspace")
	assert.Equal(t, "årial, 9", in.Value())

	in.handleKey("left")
	in.handleKey("ctrl+u")
	assert.Equal(t, "9", in.Value())
}

func TestTextInput_IgnoresNamedKeys(t *testing.T) {
	in := NewTextInput()
	in.Focus()
	in.handleKey("tab")
	in.handleKey("pgdown")
	assert.Empty(t, in.Value())
}

func TestTextInput_UnfocusedIgnoresUpdates(t *testing.T) {
	in := NewTextInput()
	in.SetValue("x")
	assert.Nil(t, in.Update(nil))
	assert.Equal(t, "x", in.Value())
	assert.Contains(t, in.View(), "x")
}
