//go:build rp2040 || rp2350

package pio

import "machine"

// GPIOCounter counts rising edges with a pin interrupt. This is the
// fallback when no state machine is free; each edge costs one interrupt.
type GPIOCounter struct {
	pin machine.Pin
}

// NewGPIOCounter calls onEdge from interrupt context for every rising edge.
func NewGPIOCounter(pin machine.Pin, onEdge func()) (*GPIOCounter, error) {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	err := pin.SetInterrupt(machine.PinRising, func(machine.Pin) {
		onEdge()
	})
	if err != nil {
		return nil, err
	}
	return &GPIOCounter{pin: pin}, nil
}

// Name returns the backend name
func (c *GPIOCounter) Name() string {
	return "GPIO"
}

// Drain always returns zero; edges are counted as they arrive.
func (c *GPIOCounter) Drain() uint32 {
	return 0
}
