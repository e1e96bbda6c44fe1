package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper removes expired entries and reports how many went away
type Sweeper interface {
	SweepExpired() int
}

// Cleaner handles periodic cleanup of expired viewer sessions
type Cleaner struct {
	sweeper  Sweeper
	interval time.Duration
	onSweep  func(removed int)
}

// NewCleaner creates a new cleanup worker. onSweep may be nil.
func NewCleaner(sweeper Sweeper, interval time.Duration, onSweep func(removed int)) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		sweeper:  sweeper,
		interval: interval,
		onSweep:  onSweep,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.cleanup()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup runs one sweep
func (c *Cleaner) cleanup() int {
	removed := c.sweeper.SweepExpired()
	if removed == 0 {
		slog.Debug("no expired viewer sessions found")
		return 0
	}

	slog.Info("expired viewer sessions removed", "count", removed)
	if c.onSweep != nil {
		c.onSweep(removed)
	}
	return removed
}
