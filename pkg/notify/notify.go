// Package notify is the user-facing notification side-channel of the store
// layer — the equivalent of a toast popup in a storefront UI.
//
// Stores never propagate errors to the presentation layer; they report
// outcomes here and return normally. The presentation layer registers a
// listener and renders whatever arrives:
//
//	n := notify.New()
//	n.Listen(func(t notify.Toast) { render(t) })
//	n.Error("Failed to fetch products")
package notify

import (
	"sync"
	"time"

	"shopstream/pkg/logger"
)

// Level classifies a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Toast is a single user-facing notification.
type Toast struct {
	Level   Level
	Message string
	Time    time.Time
}

// Listener receives every toast published on a Notifier.
type Listener func(Toast)

// Notifier dispatches toasts to registered listeners. The zero value is not
// usable; construct with New. Safe for concurrent use.
type Notifier struct {
	mu        sync.RWMutex
	listeners []Listener
}

func New() *Notifier {
	return &Notifier{}
}

// Listen registers a listener for all future toasts.
func (n *Notifier) Listen(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Success publishes a success toast.
func (n *Notifier) Success(message string) { n.publish(LevelSuccess, message) }

// Error publishes an error toast.
func (n *Notifier) Error(message string) { n.publish(LevelError, message) }

// Info publishes an informational toast.
func (n *Notifier) Info(message string) { n.publish(LevelInfo, message) }

func (n *Notifier) publish(level Level, message string) {
	t := Toast{Level: level, Message: message, Time: time.Now()}

	n.mu.RLock()
	ls := make([]Listener, len(n.listeners))
	copy(ls, n.listeners)
	n.mu.RUnlock()

	if len(ls) == 0 && level == LevelError {
		// Nobody rendering toasts yet — don't lose failures.
		logger.Warn("notify: unobserved error toast", "message", message)
	}
	for _, l := range ls {
		l(t)
	}
}

// Flush removes all listeners (useful in tests).
func (n *Notifier) Flush() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = nil
}
