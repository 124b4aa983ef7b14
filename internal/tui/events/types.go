package events

import "github.com/billie-coop/chatprefs/internal/settings"

// EventType identifies the type of event
type EventType string

// Wildcard subscribes to every event type.
const Wildcard EventType = "*"

const (
	// Settings events
	SettingChangedEvent   EventType = "settings.changed"
	SettingsSavedEvent    EventType = "settings.saved"
	SettingsResetEvent    EventType = "settings.reset"
	SettingsReloadedEvent EventType = "settings.reloaded"

	// UI events
	StatusMessageEvent EventType = "ui.status"
	ErrorMessageEvent  EventType = "ui.error"
)

// Event represents an event in the system
type Event struct {
	Type    EventType
	Payload any
}

// Event payload types

type SettingChangedPayload struct {
	Change settings.Change
}

type SettingsSavedPayload struct {
	Path string
}

type StatusMessagePayload struct {
	Message string
	Type    string // "info", "warning", "error", "success"
}
