package timer

import (
	"sync"
	"time"
)

// TickInterval is the cadence of the countdown signal.
const TickInterval = time.Second

// Clock tracks the single pending 1-second signal. Every Arm or Disarm bumps
// the generation, so a tick scheduled for an earlier Running period is
// recognised as stale and dropped.
type Clock struct {
	mu    sync.Mutex
	gen   uint64
	armed bool
}

// Arm starts a new tick generation and returns it. Arming an armed clock is a
// no-op that returns the current generation.
func (c *Clock) Arm() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.armed {
		c.gen++
		c.armed = true
	}
	return c.gen
}

// Disarm invalidates every outstanding tick.
func (c *Clock) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.armed {
		c.gen++
		c.armed = false
	}
}

// Accept reports whether a tick tagged with gen belongs to the live generation.
func (c *Clock) Accept(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed && gen == c.gen
}

// Current returns the live generation and whether the clock is armed.
func (c *Clock) Current() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, c.armed
}
