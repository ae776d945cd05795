package notify

import "time"

const (
	// MaxVisible is how many toasts are shown at once.
	MaxVisible = 4
	// TTL is how long a toast stays up.
	TTL = 3500 * time.Millisecond
)

// Stack is the visible toast list, newest first. It is owned by the UI loop
// and is not safe for concurrent use.
type Stack struct {
	items []Event
}

// Push adds e on top and drops the oldest beyond MaxVisible.
func (s *Stack) Push(e Event) {
	s.items = append([]Event{e}, s.items...)
	if len(s.items) > MaxVisible {
		s.items = s.items[:MaxVisible]
	}
}

// Dismiss removes the toast with the given ID.
func (s *Stack) Dismiss(id string) {
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

// Expire drops toasts older than TTL at now.
func (s *Stack) Expire(now time.Time) {
	kept := s.items[:0:0]
	for _, e := range s.items {
		if now.Sub(e.At) < TTL {
			kept = append(kept, e)
		}
	}
	s.items = kept
}

// Items returns the visible toasts, newest first.
func (s *Stack) Items() []Event {
	return append([]Event(nil), s.items...)
}

// Len returns the number of visible toasts.
func (s *Stack) Len() int { return len(s.items) }
