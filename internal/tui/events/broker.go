package events

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/billie-coop/chatprefs/internal/settings"
)

// Broker fans events out to subscriber channels. Publishing never blocks:
// a subscriber whose buffer is full misses the event.
type Broker struct {
	subscribers map[EventType][]chan Event
	mu          sync.RWMutex
	bufferSize  int
}

// NewBroker creates a broker whose subscriber channels buffer bufferSize
// events (16 when bufferSize <= 0).
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Broker{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel receiving the given event types, or every
// event when none are given.
func (b *Broker) Subscribe(eventTypes ...EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	if len(eventTypes) == 0 {
		eventTypes = []EventType{Wildcard}
	}
	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}
	return ch
}

// Unsubscribe detaches ch from every event type and closes it.
func (b *Broker) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var target chan Event
	for eventType, subs := range b.subscribers {
		kept := subs[:0]
		for _, sub := range subs {
			if sub == ch {
				target = sub
				continue
			}
			kept = append(kept, sub)
		}
		if len(kept) == 0 {
			delete(b.subscribers, eventType)
		} else {
			b.subscribers[eventType] = kept
		}
	}
	if target != nil {
		close(target)
	}
}

// Publish delivers event to its type's subscribers and to wildcard ones.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := make(map[chan Event]bool)
	send := func(subs []chan Event) {
		for _, ch := range subs {
			if delivered[ch] {
				continue
			}
			delivered[ch] = true
			select {
			case ch <- event:
			default:
			}
		}
	}
	send(b.subscribers[event.Type])
	if event.Type != Wildcard {
		send(b.subscribers[Wildcard])
	}
}

// Clear closes every subscription.
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed := make(map[chan Event]bool)
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			if !closed[ch] {
				close(ch)
				closed[ch] = true
			}
		}
	}
	b.subscribers = make(map[EventType][]chan Event)
}

// Listen returns a command that waits for the next event on ch and hands
// it to the Bubble Tea update loop. Re-issue it after each event. It
// yields nil once ch is closed.
func Listen(ch <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// ForwardSettings publishes a SettingChangedEvent for every assignment
// made on store. The returned func stops forwarding.
func ForwardSettings(store *settings.Store, b *Broker) func() {
	return store.Subscribe(func(c settings.Change) {
		b.Publish(Event{
			Type:    SettingChangedEvent,
			Payload: SettingChangedPayload{Change: c},
		})
	})
}
