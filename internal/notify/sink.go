// Package notify delivers upload lifecycle notifications: one "loading"
// notification per attempt and one "success" or "error" notification per
// outcome. Sinks are fire-and-forget; nothing they return is consumed.
package notify

import "sync"

// Kind is the notification type shown to the user
type Kind string

const (
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a single user facing message
type Notification struct {
	Text string `json:"text"`
	Type Kind   `json:"type"`
}

// Sink receives notifications
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Notification)

// Notify calls f(n)
func (f SinkFunc) Notify(n Notification) {
	f(n)
}

// Discard drops every notification
var Discard Sink = SinkFunc(func(Notification) {})

// Multi fans a notification out to every sink in order
type Multi []Sink

// Notify delivers n to each non-nil sink
func (m Multi) Notify(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Recorder keeps every notification it receives
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

// Notify records n
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

// Notifications returns a copy of everything recorded so far
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}
