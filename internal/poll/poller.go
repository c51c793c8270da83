// Package poll drives the fixed-interval refresh loops used instead of
// push channels, plus the inactivity watchdog.
package poll

import (
	"context"
	"log/slog"
	"time"
)

// Refresh intervals for the polling loops.
const (
	ScheduleRefreshInterval = 30 * time.Second
	NotificationsInterval   = time.Minute
	ChatRefreshInterval     = 5 * time.Second
)

// Poller invokes fn once immediately and then at every interval until the
// context is cancelled, matching the load-on-mount-then-poll behavior.
type Poller struct {
	interval time.Duration
	fn       func(context.Context)
	logger   *slog.Logger
}

func New(logger *slog.Logger, interval time.Duration, fn func(context.Context)) *Poller {
	return &Poller{
		interval: interval,
		fn:       fn,
		logger:   logger.With("module", "poll", "interval", interval.String()),
	}
}

func (p *Poller) Run(ctx context.Context) {
	p.fn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("poller stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}
