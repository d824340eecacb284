package service

import (
	"sync"
	"time"
)

// SessionWatcher fires a callback when an authenticated session's
// token expires, so connected clients can be told to re-authenticate
// instead of silently failing their next save.
type SessionWatcher struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewSessionWatcher() *SessionWatcher {
	return &SessionWatcher{
		timers: make(map[string]*time.Timer),
	}
}

// Subscribe schedules fn for when expiresAt passes. A session already
// past its expiry fires immediately. Re-subscribing the same session
// replaces the previous schedule.
func (w *SessionWatcher) Subscribe(sessionID string, expiresAt time.Time, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[sessionID]; ok {
		t.Stop()
	}

	w.timers[sessionID] = time.AfterFunc(time.Until(expiresAt), func() {
		w.mu.Lock()
		delete(w.timers, sessionID)
		w.mu.Unlock()
		fn()
	})
}

func (w *SessionWatcher) Unsubscribe(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[sessionID]; ok {
		t.Stop()
		delete(w.timers, sessionID)
	}
}

func (w *SessionWatcher) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}
