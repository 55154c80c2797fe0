// Package events defines the real-time messages pushed to listeners and
// the sink interface the index service publishes into.
package events

import (
	"sync"
	"time"
)

// Type names an event.
type Type string

const (
	TypeConnected    Type = "connected"
	TypeEcho         Type = "echo"
	TypeNewIndex     Type = "new_index"
	TypeIndexUpdated Type = "index_updated"
)

// Event is the JSON envelope sent to listeners.
type Event struct {
	Type      Type      `json:"type"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(t Type, data any) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now().UTC()}
}

// Publisher accepts events. Publish must not block the caller.
type Publisher interface {
	Publish(e Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns published events of type t.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
