package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog"

	applog "github.com/billie-coop/chatprefs/internal/log"
	"github.com/billie-coop/chatprefs/internal/settings"
	"github.com/billie-coop/chatprefs/internal/tui/events"
	"github.com/billie-coop/chatprefs/internal/tui/styles"
)

// SettingsFileChangedMsg tells the model Settings.xml changed on disk.
type SettingsFileChangedMsg struct{}

// Options tune the chat preview.
type Options struct {
	Markdown      bool
	MarkdownStyle string
}

var previewLines = []styles.ChatLine{
	{Time: "20:14", Sender: "Alphinaud", Body: "The Scions will meet at Revenant's Toll."},
	{Time: "20:15", Sender: "Alisaie", Body: "Tell them I'm already on my way."},
	{Time: "20:17", Sender: "Tataru", Body: "I've prepared the accounts, as usual!"},
}

const previewMarkdown = "**Alisaie:** remember the *bold* plan and the `/wave` emote."

// Model is the settings editor
type Model struct {
	width  int
	height int

	store    *settings.Store
	broker   *events.Broker
	eventSub <-chan events.Event
	stopFwd  func()
	logger   zerolog.Logger

	keys     KeyMap
	theme    *styles.Theme
	input    *TextInput
	options  Options
	selected int

	renderer      *glamour.TermRenderer
	rendererWidth int

	status    string
	statusErr bool
}

// New creates the editor over store. Assignments on the store are
// forwarded through broker and come back to Update as events.
func New(store *settings.Store, broker *events.Broker, opts Options) *Model {
	m := &Model{
		width:   80,
		height:  24,
		store:   store,
		broker:  broker,
		logger:  applog.WithComponent("tui"),
		keys:    DefaultKeyMap(),
		theme:   styles.DefaultTheme(),
		input:   NewTextInput(),
		options: opts,
	}
	m.eventSub = broker.Subscribe()
	m.stopFwd = events.ForwardSettings(store, broker)
	return m
}

// Close detaches the model from the store and broker.
func (m *Model) Close() {
	if m.stopFwd != nil {
		m.stopFwd()
		m.stopFwd = nil
	}
	m.broker.Unsubscribe(m.eventSub)
}

// Init starts listening for events
func (m *Model) Init() tea.Cmd {
	return events.Listen(m.eventSub)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case events.Event:
		m.handleEvent(msg)
		return m, events.Listen(m.eventSub)

	case SettingsFileChangedMsg:
		m.Reload()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Edit):
			m.CommitEdit()
		case key.Matches(msg, m.keys.Cancel):
			m.CancelEdit()
		default:
			return m.input.Update(msg)
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.Select(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.Select(m.selected + 1)
	case key.Matches(msg, m.keys.Edit):
		m.BeginEdit()
	case key.Matches(msg, m.keys.Save):
		m.Save()
	case key.Matches(msg, m.keys.Reset):
		m.Reset()
	}
	return nil
}

func (m *Model) handleEvent(event events.Event) {
	switch event.Type {
	case events.SettingChangedEvent:
		if p, ok := event.Payload.(events.SettingChangedPayload); ok {
			m.setStatus(fmt.Sprintf("%s = %s", p.Change.Key, p.Change.New), false)
		}
	case events.SettingsSavedEvent:
		if p, ok := event.Payload.(events.SettingsSavedPayload); ok {
			m.setStatus("Saved "+p.Path, false)
		}
	case events.SettingsResetEvent:
		m.setStatus("Restored defaults (not saved yet)", false)
	case events.SettingsReloadedEvent:
		m.setStatus("Reloaded settings from disk", false)
	case events.StatusMessageEvent:
		if p, ok := event.Payload.(events.StatusMessagePayload); ok {
			m.setStatus(p.Message, p.Type == "error")
		}
	case events.ErrorMessageEvent:
		if p, ok := event.Payload.(events.StatusMessagePayload); ok {
			m.setStatus(p.Message, true)
		}
	}
}

// Selected returns the key of the highlighted setting.
func (m *Model) Selected() string {
	schema := m.store.Schema()
	if len(schema) == 0 {
		return ""
	}
	return schema[m.selected].Key
}

// Select highlights the i-th setting, clamped to the schema.
func (m *Model) Select(i int) {
	n := len(m.store.Schema())
	m.selected = max(0, min(i, n-1))
}

// Editing reports whether a value is being edited.
func (m *Model) Editing() bool { return m.input.Focused() }

// BeginEdit opens the selected value for editing and shows what kind of
// text it expects.
func (m *Model) BeginEdit() {
	k := m.Selected()
	def, ok := m.store.Definition(k)
	if !ok {
		m.setStatus("no setting selected", true)
		return
	}
	v, err := m.store.Get(k)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.input.SetValue(v.String())
	m.input.Focus()
	m.setStatus(editHint(def), false)
}

func editHint(def settings.Definition) string {
	switch def.Kind {
	case settings.KindColor:
		return "Color as #AARRGGBB, #RRGGBB or a name, e.g. purple"
	case settings.KindFont:
		return "Font as Family, size[unit], e.g. " + def.Default
	case settings.KindFloat:
		return "Number, e.g. " + def.Default
	case settings.KindBool:
		return "true or false"
	default:
		return "Edit " + def.Key
	}
}

// CommitEdit applies the edited text through SetFromString.
func (m *Model) CommitEdit() {
	k, text := m.Selected(), m.input.Value()
	m.input.Blur()

	if err := m.store.SetFromString(k, text); err != nil {
		applog.Log(m.logger, "edit "+k, err)
		m.broker.Publish(events.Event{
			Type:    events.ErrorMessageEvent,
			Payload: events.StatusMessagePayload{Message: err.Error(), Type: "error"},
		})
	}
}

// CancelEdit drops the edit.
func (m *Model) CancelEdit() {
	m.input.Blur()
}

// Save persists the store.
func (m *Model) Save() {
	if err := m.store.Save(); err != nil {
		applog.Log(m.logger, "save settings", err)
		m.setStatus(err.Error(), true)
		return
	}
	m.broker.Publish(events.Event{
		Type:    events.SettingsSavedEvent,
		Payload: events.SettingsSavedPayload{Path: m.store.Path()},
	})
}

// Reset restores every default in memory.
func (m *Model) Reset() {
	m.store.Reset()
	m.broker.Publish(events.Event{Type: events.SettingsResetEvent})
}

// Reload re-reads Settings.xml after an outside edit.
func (m *Model) Reload() {
	changed, err := m.store.Reload()
	if err != nil {
		applog.Log(m.logger, "reload settings", err)
		m.setStatus(err.Error(), true)
		return
	}
	if changed > 0 {
		m.broker.Publish(events.Event{Type: events.SettingsReloadedEvent})
	}
}

// Status returns the footer message and whether it is an error.
func (m *Model) Status() (string, bool) { return m.status, m.statusErr }

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// View renders the editor
func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	s := m.theme.S()

	title := s.Title.Render("Chat Preferences")
	if m.store.Dirty() {
		title += s.Muted.Render("  (unsaved)")
	}

	listWidth := max(30, m.width/2-2)
	previewWidth := max(20, m.width-listWidth-6)

	list := s.Panel.Width(listWidth).Render(m.renderList())
	preview := s.Panel.Width(previewWidth).Render(m.renderPreview(previewWidth - 2))
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)

	status := ""
	if m.status != "" {
		if m.statusErr {
			status = s.Error.Render(m.status)
		} else {
			status = s.Success.Render(m.status)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, status, m.renderHelp())
}

func (m *Model) renderList() string {
	s := m.theme.S()

	var items []string
	for i, e := range m.store.Snapshot() {
		prefix := "  "
		label := s.Label.Render(e.Key)
		if i == m.selected {
			prefix = s.Selected.Render("▶ ")
			label = s.Selected.Render(e.Key)
		}

		value := s.Value.Render(e.Text)
		if i == m.selected && m.input.Focused() {
			value = m.input.View()
		}
		if e.Kind == settings.KindColor {
			if v, err := m.store.Get(e.Key); err == nil {
				value = lipgloss.NewStyle().Background(v.Color()).Render("  ") + " " + value
			}
		}

		item := prefix + label + ": " + value
		if e.Description != "" {
			item += "\n    " + s.Muted.Render(e.Description)
		}
		items = append(items, item)
	}
	return strings.Join(items, "\n\n")
}

func (m *Model) renderPreview(width int) string {
	chat := styles.ChatStyles(m.store, width)
	font := m.store.ChatFont()

	header := m.theme.S().Muted.Render(fmt.Sprintf("%s · %.0f%%", font, m.store.Zoom()))
	out := header + "\n" + chat.Render(previewLines)

	if m.options.Markdown {
		if r := m.markdownRenderer(chat.Width); r != nil {
			if md, err := r.Render(previewMarkdown); err == nil {
				out += "\n" + chat.Log.Width(chat.Width).Render(strings.TrimRight(md, "\n"))
			}
		}
	}
	return out
}

func (m *Model) markdownRenderer(width int) *glamour.TermRenderer {
	if m.renderer != nil && m.rendererWidth == width {
		return m.renderer
	}
	r, err := styles.MarkdownRenderer(m.options.MarkdownStyle, width)
	if err != nil {
		m.logger.Warn().Err(err).Str("style", m.options.MarkdownStyle).Msg("markdown preview disabled")
		m.options.Markdown = false
		return nil
	}
	m.renderer, m.rendererWidth = r, width
	return r
}

func (m *Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	if m.input.Focused() {
		parts = []string{"enter apply", "esc cancel"}
	}
	return m.theme.S().Muted.Render(strings.Join(parts, " • "))
}
