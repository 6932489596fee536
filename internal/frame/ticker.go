package frame

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval approximates a 60Hz display refresh.
const DefaultInterval = time.Second / 60

// Ticker calls a callback at a fixed interval on its own goroutine.
// Thread-safe: Start and Stop may be called from any goroutine, including from the callback.
type Ticker struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewTicker creates a stopped ticker. A non-positive interval selects DefaultInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{interval: interval}
}

// Start begins delivering frames to fn. It is a no-op while already running.
func (t *Ticker) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go func() {
		tick := time.NewTicker(t.interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				// Stop may have raced the tick
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()
}

// Stop ends frame delivery. It does not wait for an in-flight callback.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel == nil {
		return
	}
	t.cancel()
	t.cancel = nil
}

// Running reports whether the ticker is delivering frames.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}
