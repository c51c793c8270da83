package poll

import (
	"sync"
	"time"
)

// InactivityTimer fires onTimeout after the threshold elapses with no
// Touch. It backs the per-user inactivity logout (User.SessionTimeout).
type InactivityTimer struct {
	mu        sync.Mutex
	timer     *time.Timer
	threshold time.Duration
	onTimeout func()
	lastTouch time.Time
	stopped   bool
}

func NewInactivityTimer(threshold time.Duration, onTimeout func()) *InactivityTimer {
	t := &InactivityTimer{
		threshold: threshold,
		onTimeout: onTimeout,
		lastTouch: time.Now(),
	}
	t.timer = time.AfterFunc(threshold, t.fire)
	return t
}

// Touch records user activity and restarts the countdown.
func (t *InactivityTimer) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.lastTouch = time.Now()
	t.timer.Stop()
	t.timer.Reset(t.threshold)
}

// Stop releases the timer. Safe to call on every exit path.
func (t *InactivityTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.timer.Stop()
}

func (t *InactivityTimer) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	// A fire can be in flight while a Touch lands; the touch wins and the
	// countdown keeps running from it.
	if remaining := t.threshold - time.Since(t.lastTouch); remaining > 0 {
		t.timer.Reset(remaining)
		t.mu.Unlock()
		return
	}

	t.stopped = true
	t.mu.Unlock()

	t.onTimeout()
}
