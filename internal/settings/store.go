package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	applog "github.com/billie-coop/chatprefs/internal/log"
	"github.com/billie-coop/chatprefs/internal/xmlhelper"
)

// FileName is the settings file written under the base directory.
const FileName = "Settings.xml"

// XML layout of the settings document.
const (
	RootTag  = "Settings"
	ItemTag  = "Setting"
	ValueTag = "Value"
)

var (
	// ErrUnknownKey is returned for keys outside the store's schema.
	ErrUnknownKey = errors.New("settings: unknown key")
	// ErrWrongType is returned when a value's kind differs from the
	// declared kind of its key.
	ErrWrongType = errors.New("settings: wrong value type")
)

// Registry is the set of keys considered current for persistence. It is
// owned by the caller; the store reads it and re-seeds it on Save and
// Reset.
type Registry interface {
	Add(keys ...string) int
	Clear()
	Items() []string
	Has(key string) bool
}

// Change describes one assignment.
type Change struct {
	Key string
	Old Value
	New Value
}

// Entry is a read-only view of one setting for display.
type Entry struct {
	Key         string
	Kind        Kind
	Text        string
	Description string
}

type observer struct {
	id int
	fn func(Change)
}

// Store holds the current value of every setting in its schema.
type Store struct {
	path     string
	schema   []Definition
	defs     map[string]Definition
	values   map[string]Value
	registry Registry
	doc      *etree.Document
	synced   []byte // file contents as of the last Save or Reload
	logger   zerolog.Logger

	observers []observer
	nextID    int
	dirty     bool
}

// Option customizes a Store.
type Option func(*Store)

// WithSchema replaces the default chat schema.
func WithSchema(schema []Definition) Option {
	return func(s *Store) {
		s.schema = schema
	}
}

// WithLogger sets the logger swallowed errors are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a store persisting to <baseDir>/Settings.xml, with every
// setting at its default. Call Load to pick up the file.
func New(baseDir string, registry Registry, opts ...Option) *Store {
	s := &Store{
		path:     filepath.Join(baseDir, FileName),
		schema:   DefaultSchema(),
		registry: registry,
		logger:   applog.WithComponent("settings"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.defs = make(map[string]Definition, len(s.schema))
	s.values = make(map[string]Value, len(s.schema))
	for _, def := range s.schema {
		s.defs[def.Key] = def
		v, fellBack, err := Coerce(def.Kind, def.Default)
		if err != nil || fellBack {
			s.logger.Warn().
				Err(err).
				Str("key", def.Key).
				Str("default", def.Default).
				Msg("setting default does not parse")
		}
		s.values[def.Key] = v
	}
	return s
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Dirty reports whether values changed since the last Load or Save.
func (s *Store) Dirty() bool { return s.dirty }

// Schema returns the store's definitions in order.
func (s *Store) Schema() []Definition {
	out := make([]Definition, len(s.schema))
	copy(out, s.schema)
	return out
}

// Definition looks up the declaration of key.
func (s *Store) Definition(key string) (Definition, bool) {
	def, ok := s.defs[key]
	return def, ok
}

// Get returns the current value of key.
func (s *Store) Get(key string) (Value, error) {
	v, ok := s.values[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return v, nil
}

// Set assigns v to key and notifies observers.
func (s *Store) Set(key string, v Value) error {
	def, ok := s.defs[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if v.Kind() != def.Kind {
		return fmt.Errorf("%w: %s is %s, got %s", ErrWrongType, key, def.Kind, v.Kind())
	}

	old := s.values[key]
	s.values[key] = v
	s.dirty = true
	s.notify(Change{Key: key, Old: old, New: v})
	return nil
}

// SetFromString coerces text to the declared kind of key and assigns it.
// Colors and fonts that do not parse are replaced by Black and
// DefaultFont. Bool and float parse errors are returned. An unknown key,
// or a stored value of the wrong kind, is logged and otherwise ignored.
func (s *Store) SetFromString(key, text string) error {
	def, ok := s.defs[key]
	if !ok {
		applog.Log(s.logger, "set from string", fmt.Errorf("%w: %s", ErrUnknownKey, key))
		return nil
	}
	if cur, ok := s.values[key]; !ok || cur.Kind() != def.Kind {
		applog.Log(s.logger, "set from string", fmt.Errorf("%w: %s", ErrWrongType, key))
		return nil
	}

	v, fellBack, err := Coerce(def.Kind, text)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if fellBack {
		s.logger.Debug().
			Str("key", key).
			Str("input", text).
			Str("fallback", v.String()).
			Msg("unparseable value replaced by fallback")
	}
	return s.Set(key, v)
}

// Reset re-seeds the registry from the schema and restores every tracked
// key to its default.
func (s *Store) Reset() {
	s.seedRegistry()
	for _, key := range s.registry.Items() {
		def, ok := s.defs[key]
		if !ok {
			continue
		}
		if err := s.SetFromString(key, def.Default); err != nil {
			applog.Log(s.logger, "reset "+key, err)
		}
	}
}

// Load reads the settings file, if any, and applies every known key.
// Unknown keys in the file are logged and skipped.
func (s *Store) Load() error {
	doc, err := xmlhelper.ReadFile(s.path, RootTag)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	s.doc = doc

	s.eachStored(func(key, text string) {
		if err := s.SetFromString(key, text); err != nil {
			applog.Log(s.logger, "load "+key, err)
		}
	})
	s.dirty = false

	s.logger.Info().
		Str("event", "settings.loaded").
		Str("path", s.path).
		Msg("settings loaded")
	return nil
}

// Reload re-reads the settings file after an outside edit and returns how
// many keys changed. Only keys whose value differs from memory are
// assigned, so observers see real changes only. Unsaved in-memory edits to
// keys present in the file are replaced, unless the file still holds
// exactly what the store last saved or reloaded, in which case nothing is
// applied. A missing file is ignored.
func (s *Store) Reload() (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reload settings: %w", err)
	}
	if s.synced != nil && bytes.Equal(data, s.synced) {
		s.logger.Debug().Str("path", s.path).Msg("settings file unchanged, skipping reload")
		return 0, nil
	}

	doc, err := xmlhelper.Parse(data, RootTag)
	if err != nil {
		return 0, fmt.Errorf("reload settings: %w", err)
	}
	s.doc = doc
	s.synced = data

	wasDirty := s.dirty
	changed := 0
	s.eachStored(func(key, text string) {
		def := s.defs[key]
		v, _, err := Coerce(def.Kind, text)
		if err != nil {
			applog.Log(s.logger, "reload "+key, err)
			return
		}
		if v.Equal(s.values[key]) {
			return
		}
		if err := s.Set(key, v); err == nil {
			changed++
		}
	})
	s.dirty = wasDirty

	s.logger.Info().
		Str("event", "settings.reloaded").
		Int("changed", changed).
		Msg("settings reloaded")
	return changed, nil
}

// eachStored calls fn with every known key and its text in the document.
func (s *Store) eachStored(fn func(key, text string)) {
	container := xmlhelper.Container(s.doc, RootTag)
	for _, item := range container.SelectElements(ItemTag) {
		key := item.SelectAttrValue(xmlhelper.KeyAttr, "")
		if _, ok := s.defs[key]; !ok {
			s.logger.Warn().Str("key", key).Msg("ignoring unknown setting in file")
			continue
		}
		text, ok := xmlhelper.ChildText(item, ValueTag)
		if !ok {
			s.logger.Warn().Str("key", key).Msg("setting has no value node")
			continue
		}
		fn(key, text)
	}
}

// Save re-seeds the registry, mirrors every tracked key into the document
// and writes it to disk.
func (s *Store) Save() error {
	s.seedRegistry()
	if s.doc == nil {
		s.doc = xmlhelper.NewDocument(RootTag)
	}
	s.syncDocument()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := xmlhelper.WriteFile(s.doc, s.path)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.synced = data
	s.dirty = false

	s.logger.Info().
		Str("event", "settings.saved").
		Str("path", s.path).
		Msg("settings saved")
	return nil
}

// syncDocument leaves exactly one Setting per tracked key, holding the
// current value, and drops the rest.
func (s *Store) syncDocument() {
	container := xmlhelper.Container(s.doc, RootTag)

	seen := make(map[string]bool)
	var stale []string
	for _, item := range container.SelectElements(ItemTag) {
		key := item.SelectAttrValue(xmlhelper.KeyAttr, "")
		switch {
		case !s.registry.Has(key):
			if !seen[key] {
				stale = append(stale, key)
			}
		case seen[key]:
			container.RemoveChild(item)
		}
		seen[key] = true
	}
	for _, key := range stale {
		for xmlhelper.RemoveItem(container, ItemTag, key) {
		}
		s.logger.Debug().Str("key", key).Msg("dropped untracked setting")
	}

	for _, key := range s.registry.Items() {
		v, ok := s.values[key]
		if !ok {
			s.logger.Warn().Str("key", key).Msg("tracked key has no value")
			continue
		}
		pairs := []xmlhelper.XValuePair{{Key: ValueTag, Value: v.String()}}
		xmlhelper.SaveXMLNode(s.doc, RootTag, ItemTag, key, pairs)
	}
}

// seedRegistry drops whatever the registry held and tracks exactly the
// schema's keys, so keys from older versions do not survive a save.
func (s *Store) seedRegistry() {
	s.registry.Clear()
	s.registry.Add(Keys(s.schema)...)
}

// Snapshot lists every setting in schema order.
func (s *Store) Snapshot() []Entry {
	out := make([]Entry, 0, len(s.schema))
	for _, def := range s.schema {
		out = append(out, Entry{
			Key:         def.Key,
			Kind:        def.Kind,
			Text:        s.values[def.Key].String(),
			Description: def.Description,
		})
	}
	return out
}

// Subscribe registers fn to run after every assignment, on the goroutine
// that made it. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	for _, o := range append([]observer(nil), s.observers...) {
		o.fn(c)
	}
}

// ChatBackgroundColor is the chat log background.
func (s *Store) ChatBackgroundColor() Color { return s.values[KeyChatBackgroundColor].Color() }

// SetChatBackgroundColor assigns the chat log background.
func (s *Store) SetChatBackgroundColor(c Color) {
	s.mustSet(KeyChatBackgroundColor, ColorValue(c))
}

// TimeStampColor is the color of message timestamps.
func (s *Store) TimeStampColor() Color { return s.values[KeyTimeStampColor].Color() }

// SetTimeStampColor assigns the timestamp color.
func (s *Store) SetTimeStampColor(c Color) {
	s.mustSet(KeyTimeStampColor, ColorValue(c))
}

// ChatFont is the font used for chat lines.
func (s *Store) ChatFont() Font { return s.values[KeyChatFont].Font() }

// SetChatFont assigns the chat font.
func (s *Store) SetChatFont(f Font) {
	s.mustSet(KeyChatFont, FontValue(f))
}

// Zoom is the zoom level in percent.
func (s *Store) Zoom() float64 { return s.values[KeyZoom].Float() }

// SetZoom assigns the zoom level.
func (s *Store) SetZoom(z float64) {
	s.mustSet(KeyZoom, FloatValue(z))
}

// mustSet backs the typed setters. With a custom schema lacking the key
// the failure is logged rather than returned.
func (s *Store) mustSet(key string, v Value) {
	if err := s.Set(key, v); err != nil {
		applog.Log(s.logger, "set "+key, err)
	}
}
