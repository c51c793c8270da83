package poll

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoller_RunsImmediatelyThenOnInterval(t *testing.T) {
	var runs atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(discardLogger(), 20*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(110 * time.Millisecond)
	cancel()
	<-done

	got := runs.Load()
	if got < 3 {
		t.Errorf("runs = %d, want at least the immediate run plus interval ticks", got)
	}
}

func TestPoller_StopsOnCancel(t *testing.T) {
	var runs atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	p := New(discardLogger(), 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	settled := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != settled {
		t.Error("poller kept running after cancel")
	}
}

func TestInactivityTimer_FiresAfterThreshold(t *testing.T) {
	fired := make(chan struct{})

	timer := NewInactivityTimer(30*time.Millisecond, func() {
		close(fired)
	})
	defer timer.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestInactivityTimer_TouchDefersFiring(t *testing.T) {
	fired := make(chan struct{})

	timer := NewInactivityTimer(60*time.Millisecond, func() {
		close(fired)
	})
	defer timer.Stop()

	// Keep touching inside the threshold; the timer must not fire.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		timer.Touch()
	}

	select {
	case <-fired:
		t.Fatal("timer fired despite activity")
	default:
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire after activity stopped")
	}
}

func TestInactivityTimer_StaleFireYieldsToTouch(t *testing.T) {
	fired := make(chan struct{})

	timer := NewInactivityTimer(time.Hour, func() {
		close(fired)
	})
	defer timer.Stop()

	// A fire dispatched just before a touch observes the fresh activity
	// once it gets the lock; it must re-arm, not log out.
	timer.mu.Lock()
	timer.lastTouch = time.Now()
	timer.mu.Unlock()

	timer.fire()

	select {
	case <-fired:
		t.Fatal("stale fire must not trigger the timeout")
	case <-time.After(50 * time.Millisecond):
	}

	timer.mu.Lock()
	stopped := timer.stopped
	timer.mu.Unlock()
	if stopped {
		t.Error("timer must stay armed after a stale fire")
	}
}

func TestInactivityTimer_ExpiredFireStillFires(t *testing.T) {
	fired := make(chan struct{})

	timer := NewInactivityTimer(time.Hour, func() {
		close(fired)
	})
	defer timer.Stop()

	timer.mu.Lock()
	timer.lastTouch = time.Now().Add(-2 * time.Hour)
	timer.mu.Unlock()

	timer.fire()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("fire with the threshold elapsed must trigger the timeout")
	}
}

func TestInactivityTimer_StopPreventsFiring(t *testing.T) {
	fired := make(chan struct{})

	timer := NewInactivityTimer(20*time.Millisecond, func() {
		close(fired)
	})
	timer.Stop()

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}

	// Touch after Stop must not revive it.
	timer.Touch()
	select {
	case <-fired:
		t.Fatal("touch revived a stopped timer")
	case <-time.After(60 * time.Millisecond):
	}
}
