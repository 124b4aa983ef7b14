package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-coop/chatprefs/internal/csync"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *csync.Set[string]) {
	t.Helper()
	registry := csync.NewSet[string]()
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return New(t.TempDir(), registry, opts...), registry
}

func TestNew_Defaults(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Equal(t, Black, s.ChatBackgroundColor())
	assert.Equal(t, Color{A: 0xFF, R: 0x80, G: 0x00, B: 0x80}, s.TimeStampColor())
	assert.Equal(t, DefaultFont, s.ChatFont())
	assert.Equal(t, 100.0, s.Zoom())
	assert.False(t, s.Dirty())
}

func TestSetFromString_DefaultsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	for _, def := range s.Schema() {
		t.Run(def.Key, func(t *testing.T) {
			want, _, err := Coerce(def.Kind, def.Default)
			require.NoError(t, err)

			require.NoError(t, s.SetFromString(def.Key, want.String()))
			got, err := s.Get(def.Key)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "want %v got %v", want, got)
		})
	}
}

func TestSetFromString_ZoomNotifies(t *testing.T) {
	s, _ := newTestStore(t)
	require.Equal(t, 100.0, s.Zoom())

	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	require.NoError(t, s.SetFromString("Zoom", "150.5"))

	got, err := s.Get("Zoom")
	require.NoError(t, err)
	assert.Equal(t, 150.5, got.Float())
	require.Len(t, changes, 1)
	assert.Equal(t, "Zoom", changes[0].Key)
	assert.Equal(t, 100.0, changes[0].Old.Float())
	assert.Equal(t, 150.5, changes[0].New.Float())
	assert.True(t, s.Dirty())
}

func TestSetFromString_ColorChannels(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.SetFromString("ChatBackgroundColor", "#FF112233"))

	c := s.ChatBackgroundColor()
	assert.Equal(t, uint8(0xFF), c.A)
	assert.Equal(t, uint8(0x11), c.R)
	assert.Equal(t, uint8(0x22), c.G)
	assert.Equal(t, uint8(0x33), c.B)
}

func TestSetFromString_Fallbacks(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetChatBackgroundColor(Color{A: 0xFF, R: 0x10})
	s.SetChatFont(Font{Family: "Consolas", Size: 10, Unit: UnitPoint})

	require.NoError(t, s.SetFromString("ChatBackgroundColor", "not-a-color"))
	require.NoError(t, s.SetFromString("ChatFont", "not-a-font"))

	assert.Equal(t, Black, s.ChatBackgroundColor())
	assert.Equal(t, Font{Family: "Microsoft Sans Serif", Size: 12, Unit: UnitPoint}, s.ChatFont())
}

func TestSetFromString_FloatErrorSurfaces(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.SetFromString("Zoom", "huge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Zoom")
	assert.Equal(t, 100.0, s.Zoom())
}

func TestSetFromString_BoolAndString(t *testing.T) {
	s, _ := newTestStore(t, WithSchema([]Definition{
		{Key: "ShowTimestamps", Kind: KindBool, Default: "true"},
		{Key: "Nickname", Kind: KindString, Default: "guest"},
	}))

	require.NoError(t, s.SetFromString("ShowTimestamps", "False"))
	v, err := s.Get("ShowTimestamps")
	require.NoError(t, err)
	assert.False(t, v.Bool())

	assert.Error(t, s.SetFromString("ShowTimestamps", "maybe"))

	require.NoError(t, s.SetFromString("Nickname", "Ysayle"))
	v, err = s.Get("Nickname")
	require.NoError(t, err)
	assert.Equal(t, "Ysayle", v.String())
}

func TestSetFromString_UnknownKeyIsSwallowed(t *testing.T) {
	s, _ := newTestStore(t)

	notified := false
	s.Subscribe(func(Change) { notified = true })

	assert.NoError(t, s.SetFromString("FontSize", "12"))
	assert.False(t, notified)
	assert.False(t, s.Dirty())
}

func TestGetAndSet_Errors(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get("Nope")
	assert.ErrorIs(t, err, ErrUnknownKey)

	assert.ErrorIs(t, s.Set("Nope", FloatValue(1)), ErrUnknownKey)
	assert.ErrorIs(t, s.Set("Zoom", StringValue("1")), ErrWrongType)
	assert.Equal(t, 100.0, s.Zoom())
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s, _ := newTestStore(t)

	var a, b int
	unsubA := s.Subscribe(func(Change) { a++ })
	s.Subscribe(func(Change) { b++ })

	s.SetZoom(110)
	unsubA()
	s.SetZoom(120)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestReset_RestoresDefaults(t *testing.T) {
	s, registry := newTestStore(t)
	registry.Add("LegacyKey")

	s.SetZoom(175)
	s.SetTimeStampColor(Color{A: 0xFF, G: 0xFF})

	var keys []string
	s.Subscribe(func(c Change) { keys = append(keys, c.Key) })

	s.Reset()

	assert.Equal(t, 100.0, s.Zoom())
	assert.Equal(t, Color{A: 0xFF, R: 0x80, B: 0x80}, s.TimeStampColor())
	assert.Equal(t, Keys(DefaultSchema()), registry.Items())
	assert.Equal(t, Keys(DefaultSchema()), keys)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))

	s.SetChatBackgroundColor(Color{A: 0xFF, R: 0x11, G: 0x22, B: 0x33})
	s.SetTimeStampColor(Color{A: 0x80, R: 0xFF})
	s.SetChatFont(Font{Family: "Segoe UI", Size: 8.25, Unit: UnitPoint})
	s.SetZoom(150.5)
	require.NoError(t, s.Save())
	assert.False(t, s.Dirty())

	reloaded := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))
	require.NoError(t, reloaded.Load())

	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
	assert.Equal(t, 150.5, reloaded.Zoom())
	assert.False(t, reloaded.Dirty())
}

func TestSave_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetZoom(90)

	require.NoError(t, s.Save())
	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	require.NoError(t, s.Save())
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestSave_OneElementPerKeyAndNoStaleKeys(t *testing.T) {
	dir := t.TempDir()
	legacy := `<?xml version="1.0" encoding="UTF-8"?>
<Settings>
  <Setting Key="Zoom">
    <Value>80</Value>
  </Setting>
  <Setting Key="OldTheme">
    <Value>dark</Value>
  </Setting>
  <Setting Key="Zoom">
    <Value>90</Value>
  </Setting>
  <Setting Key="ChatFont"/>
</Settings>
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(legacy), 0o644))

	s := New(dir, csync.NewSet("OldTheme"), WithLogger(zerolog.Nop()))
	require.NoError(t, s.Load())
	assert.Equal(t, 90.0, s.Zoom())

	require.NoError(t, s.Save())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	text := string(data)

	assert.NotContains(t, text, "OldTheme")
	for _, e := range s.Snapshot() {
		assert.Equal(t, 1, strings.Count(text, `Key="`+e.Key+`"`), e.Key)
		assert.Contains(t, text, "<Value>"+e.Text+"</Value>")
	}
	assert.Contains(t, text, "<Value>90</Value>")
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Load())
	assert.Equal(t, 100.0, s.Zoom())
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	dir := t.TempDir()
	doc := `<Settings>
  <Setting Key="ChatBackgroundColor"><Value>chartreuse-ish</Value></Setting>
  <Setting Key="Zoom"><Value>lots</Value></Setting>
</Settings>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(doc), 0o644))

	s := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))
	require.NoError(t, s.Load())

	assert.Equal(t, Black, s.ChatBackgroundColor())
	assert.Equal(t, 100.0, s.Zoom())
}

func TestLoad_PrettyPrintedValues(t *testing.T) {
	dir := t.TempDir()
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<Settings>
  <Setting Key="Zoom">
    <Value>
      150
    </Value>
  </Setting>
  <Setting Key="TimeStampColor">
    <Value>
      #FF112233
    </Value>
  </Setting>
</Settings>
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(doc), 0o644))

	s := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))
	require.NoError(t, s.Load())

	assert.Equal(t, 150.0, s.Zoom())
	assert.Equal(t, Color{A: 0xFF, R: 0x11, G: 0x22, B: 0x33}, s.TimeStampColor())
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`<Settings><Setting Key="Zoom"`), 0o644))

	s := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))
	assert.Error(t, s.Load())
}

func TestReload_NotifiesOnlyChangedKeys(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))
	require.NoError(t, s.Save())

	other := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))
	require.NoError(t, other.Load())
	other.SetZoom(125)
	require.NoError(t, other.Save())

	var keys []string
	s.Subscribe(func(c Change) { keys = append(keys, c.Key) })

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, []string{"Zoom"}, keys)
	assert.Equal(t, 125.0, s.Zoom())

	changed, err = s.Reload()
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, []string{"Zoom"}, keys)
}

func TestReload_OwnSaveKeepsLaterEdits(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetZoom(125)
	require.NoError(t, s.Save())

	// edit lands before the watcher's debounced reload of our own write
	s.SetZoom(175)

	var keys []string
	s.Subscribe(func(c Change) { keys = append(keys, c.Key) })

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Empty(t, keys)
	assert.Equal(t, 175.0, s.Zoom())
	assert.True(t, s.Dirty())
}

func TestReload_MissingFileIsIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetZoom(110)

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, 110.0, s.Zoom())
}

func TestReload_NaNInFileIsRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	s := New(dir, csync.NewSet[string](), WithLogger(zerolog.Nop()))

	var keys []string
	s.Subscribe(func(c Change) { keys = append(keys, c.Key) })

	for _, zoom := range []string{"NaN", "nan "} {
		doc := `<Settings><Setting Key="Zoom"><Value>` + zoom + `</Value></Setting></Settings>`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
		_, err := s.Reload()
		require.NoError(t, err)
	}
	assert.Empty(t, keys)
	assert.Equal(t, 100.0, s.Zoom())
}
