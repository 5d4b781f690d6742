// Package notify implements the toast notification channel: a single current
// notification that auto-dismisses after a fixed duration.
package notify

import (
	"sync"
	"time"
)

// DefaultDismissAfter is how long a notification stays visible.
const DefaultDismissAfter = 2500 * time.Millisecond

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Notifier holds at most one visible notification. A newer notification
// replaces the current one and restarts the dismissal clock; the stale
// dismissal is a no-op thanks to the generation check.
type Notifier struct {
	mu           sync.Mutex
	current      *Notification
	gen          uint64
	dismissAfter time.Duration

	// after schedules a one-shot callback; overridable in tests.
	after func(d time.Duration, f func())
}

func NewNotifier(dismissAfter time.Duration) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Notifier{
		dismissAfter: dismissAfter,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Notify shows a notification and schedules its dismissal.
func (n *Notifier) Notify(message string, kind Kind) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.current = &Notification{Message: message, Kind: kind}
	n.mu.Unlock()

	n.after(n.dismissAfter, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			n.current = nil
		}
	})
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// SetAfterFunc replaces the timer used for dismissal. Intended for tests.
func (n *Notifier) SetAfterFunc(after func(d time.Duration, f func())) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.after = after
}
