package frame

import (
	"sync"
	"time"
)

// Clock reports the current time in milliseconds.
type Clock interface {
	Now() float64
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a monotonic clock starting at zero.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// ManualClock is a Clock advanced explicitly, for tests and offline
// simulation.
type ManualClock struct {
	mu  sync.Mutex
	now float64
}

// NewManualClock returns a clock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now implements Clock.
func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += float64(d) / float64(time.Millisecond)
	c.mu.Unlock()
}

// Set moves the clock to an absolute time in milliseconds.
func (c *ManualClock) Set(ms float64) {
	c.mu.Lock()
	c.now = ms
	c.mu.Unlock()
}
