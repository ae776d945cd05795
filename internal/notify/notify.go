// Package notify carries user-facing outcome events from the session store
// and views to whatever displays them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the tone of an event.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "success"
}

// Event is one notification.
type Event struct {
	ID      string
	Kind    Kind
	Title   string
	Message string
	At      time.Time
}

// New builds an event with a fresh ID.
func New(kind Kind, title, message string) Event {
	return Event{ID: uuid.NewString(), Kind: kind, Title: title, Message: message, At: time.Now()}
}

// Sink receives events. Implementations must be safe for concurrent use.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Notify implements Sink.
func (f SinkFunc) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Recorder keeps every event it receives. Used by tests and as a buffer
// between command goroutines and the UI loop.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify implements Sink.
func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Drain returns and forgets the recorded events.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Titles lists recorded titles in order.
func (r *Recorder) Titles() []string {
	events := r.Events()
	titles := make([]string, len(events))
	for i, e := range events {
		titles[i] = e.Title
	}
	return titles
}
