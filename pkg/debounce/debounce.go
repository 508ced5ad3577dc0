// Package debounce collapses bursts of calls into one delayed invocation.
// The search flow uses it so intermediate keystrokes do not each trigger a
// filter pass over the catalog.
package debounce

import (
	"sync"
	"time"
)

// Debouncer invokes a function once per burst, after the configured quiet
// interval. Each Call resets the timer; only the last function passed within
// a burst runs. Safe for concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	timer *time.Timer
}

// New creates a Debouncer with the given quiet interval.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Call schedules fn to run after the quiet interval, cancelling any
// previously scheduled call.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
