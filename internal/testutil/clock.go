package testutil

import (
	"sync"

	"github.com/roach88/revlog/internal/ir"
)

// ManualClock is a wall clock that only moves when told to.
//
// Tests pin the timestamp of each write with Set, or step it with Advance,
// so revision and tombstone ordering is fully determined by the test.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now ir.Timestamp
}

// NewManualClock creates a clock reading start.
func NewManualClock(start ir.Timestamp) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current reading without moving the clock.
func (c *ManualClock) Now() ir.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to ts. Moving backwards is allowed: author clocks are
// not synchronized, and tests need to write out-of-order timestamps.
func (c *ManualClock) Set(ts ir.Timestamp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = ts
}

// Advance moves the clock forward by d and returns the new reading.
func (c *ManualClock) Advance(d ir.Timestamp) ir.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}
