package sampler

import (
	"context"
	"sync"
	"time"
)

// TickFunc is called once per frame. Returning false deregisters it.
type TickFunc func(now time.Time) bool

// Registration is a subscription to a Scheduler.
type Registration interface {
	// Cancel deregisters the subscription. When it returns, the TickFunc is
	// not running and will not run again. It must not be called from inside
	// the TickFunc itself; return false there instead.
	Cancel()
}

// Scheduler delivers frame ticks, standing in for a display's repaint cadence.
type Scheduler interface {
	Subscribe(fn TickFunc) Registration
}

type subscription struct {
	clock *FrameClock
	fn    TickFunc

	mu        sync.Mutex // held while fn runs
	cancelled bool
}

func (s *subscription) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
	s.clock.remove(s)
}

// FrameClock is a Scheduler driven by a ticker. All callbacks run on the
// goroutine calling Run (or Tick), one after another, in subscription order.
type FrameClock struct {
	interval time.Duration

	mu   sync.Mutex
	subs []*subscription
}

func NewFrameClock(interval time.Duration) *FrameClock {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &FrameClock{interval: interval}
}

func (c *FrameClock) Subscribe(fn TickFunc) Registration {
	s := &subscription{clock: c, fn: fn}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	return s
}

func (c *FrameClock) remove(s *subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subs {
		if sub == s {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscriptions.
func (c *FrameClock) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Tick runs one frame at now. Subscriptions added during the frame first run
// on the next one.
func (c *FrameClock) Tick(now time.Time) {
	c.mu.Lock()
	subs := append([]*subscription(nil), c.subs...)
	c.mu.Unlock()

	for _, s := range subs {
		s.mu.Lock()
		if s.cancelled {
			s.mu.Unlock()
			continue
		}
		keep := s.fn(now)
		if !keep {
			s.cancelled = true
		}
		s.mu.Unlock()
		if !keep {
			c.remove(s)
		}
	}
}

// Run ticks until ctx is cancelled.
func (c *FrameClock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			c.Tick(now)
		}
	}
}
