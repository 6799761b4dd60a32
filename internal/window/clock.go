package window

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval matches the refresh granularity of the production
// registration page.
const DefaultTickInterval = 200 * time.Millisecond

// Clock maintains a periodically refreshed "now" value. Reads are cheap and
// lock-guarded; the refresh goroutine stops when the owning context is
// cancelled or Stop is called, so no ticker outlives its view.
type Clock struct {
	mu       sync.RWMutex
	now      time.Time
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewClock creates a clock ticking at the given interval.
// A non-positive interval falls back to DefaultTickInterval.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Clock{
		now:      time.Now(),
		interval: interval,
	}
}

// Start begins the refresh loop. It returns immediately; calling Start twice
// without Stop in between is a no-op.
func (c *Clock) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx)
}

func (c *Clock) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			c.mu.Lock()
			c.now = t
			c.mu.Unlock()
		}
	}
}

// Now returns the most recently observed wall-clock time. Before Start (or
// after Stop) it returns the last refreshed value.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Stop cancels the refresh loop and waits for it to exit. Idempotent.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
