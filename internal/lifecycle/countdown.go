package lifecycle

import (
	"fmt"
	"sync"
	"time"

	"github.com/mindwell/sessionctl/internal/model"
)

const _urgentThreshold = 5 * time.Minute

// Tick is one recomputation of the session clock. Every field derives from
// absolute timestamps, so a slow or delayed tick self-corrects instead of
// accumulating interval error.
type Tick struct {
	Remaining  time.Duration
	Display    string // MM:SS, clamped at 00:00
	Urgent     bool   // under five minutes remaining
	DemoActive bool   // elapsed minutes still inside the demo allotment
}

// ComputeTick derives the clock state for a single instant.
func ComputeTick(now time.Time, sess model.Session, demo model.DemoMinutes) Tick {
	remaining := sess.EndTime.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	total := int(remaining / time.Second)
	display := fmt.Sprintf("%02d:%02d", total/60, total%60)

	demoActive := false
	if demo.Remaining > 0 && !sess.StartTime.IsZero() {
		elapsedMinutes := now.Sub(sess.StartTime).Minutes()
		demoActive = elapsedMinutes < demo.Remaining
	}

	return Tick{
		Remaining:  remaining,
		Display:    display,
		Urgent:     remaining < _urgentThreshold,
		DemoActive: demoActive,
	}
}

// Countdown recomputes the session clock once per second until stopped.
type Countdown struct {
	stop chan struct{}
	once sync.Once
}

// StartCountdown begins ticking and reports each Tick through onTick.
// The caller must Stop it on every exit path; Stop is idempotent.
func StartCountdown(sess model.Session, demo model.DemoMinutes, onTick func(Tick)) *Countdown {
	c := &Countdown{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-c.stop:
				return
			case now := <-ticker.C:
				onTick(ComputeTick(now, sess, demo))
			}
		}
	}()

	return c
}

func (c *Countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}
