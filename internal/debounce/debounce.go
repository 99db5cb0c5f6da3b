// Package debounce provides a trailing-edge debouncer: rapid triggers
// collapse into a single callback that fires once the input goes quiet.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay matches the UI search debounce window.
const DefaultDelay = 300 * time.Millisecond

// Debouncer delays work until Trigger has not been called for the configured
// window. Each Trigger resets the timer and replaces the pending callback, so
// the last trigger always wins and is never dropped.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, cancelling any pending run.
// fn executes on the timer goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending run. It does not wait for a callback that has
// already started.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
