package editor

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of triggers into a single deferred call:
// each Trigger resets the countdown, and fn runs once when the window
// elapses with no further trigger. Overlapping runs are possible when a
// new trigger arrives while fn is still executing; callers accept the
// resulting last-write-wins semantics.
type Debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
	fn     func()
}

func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger resets the quiescence countdown.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Stop cancels any pending call. It must be called when the owner is
// torn down so no save fires against a stale context; a run already in
// progress is not interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
