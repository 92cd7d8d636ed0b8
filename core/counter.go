package core

import "sync/atomic"

// Counter is the 32-bit pulse counter shared between the pulse-edge
// interrupt and the I2C slave interrupt. All access is lock-free so a read
// for transmission is never torn by a concurrent increment.
type Counter struct {
	v atomic.Uint32
}

// Increment adds one pulse. Safe to call from interrupt context.
func (c *Counter) Increment() {
	c.v.Add(1)
}

// Add adds n pulses, used by hardware counters that are drained in batches.
func (c *Counter) Add(n uint32) {
	c.v.Add(n)
}

// Load returns the current count.
func (c *Counter) Load() uint32 {
	return c.v.Load()
}

// Reset sets the count back to zero.
func (c *Counter) Reset() {
	c.v.Store(0)
}
