package core

import "sync/atomic"

// DeviceState is the durable instrument state mutated by completed
// commands. It lives for the whole process and is shared by the I2C
// interrupt, the pulse source and the main loop.
type DeviceState struct {
	pulses   Counter
	counting atomic.Bool

	// Guarded by the interrupt-disable sections in the task context; the
	// interrupt handler itself is not reentrant.
	currentVoltage uint16
	targetVoltage  uint16
}

// NewDeviceState returns the boot state: counting disabled, zero voltages.
func NewDeviceState() *DeviceState {
	return &DeviceState{}
}

// Pulses returns the counter fed by the pulse source.
func (d *DeviceState) Pulses() *Counter {
	return &d.pulses
}

// PulseCount returns the current pulse count.
func (d *DeviceState) PulseCount() uint32 {
	return d.pulses.Load()
}

// Counting reports whether START has enabled counting.
func (d *DeviceState) Counting() bool {
	return d.counting.Load()
}

// RecordPulse counts one edge if counting is enabled. It is the body of
// the pulse-edge interrupt.
func (d *DeviceState) RecordPulse() {
	if d.counting.Load() {
		d.pulses.Increment()
	}
}

// RecordPulses counts n edges gathered by a hardware counter if counting
// is enabled.
func (d *DeviceState) RecordPulses(n uint32) {
	if n != 0 && d.counting.Load() {
		d.pulses.Add(n)
	}
}

// CurrentVoltage returns the last sampled output voltage reading.
func (d *DeviceState) CurrentVoltage() uint16 {
	state := disableInterrupts()
	v := d.currentVoltage
	restoreInterrupts(state)
	return v
}

// SetCurrentVoltage publishes a new voltage reading for GET_VOLTAGE.
func (d *DeviceState) SetCurrentVoltage(v uint16) {
	state := disableInterrupts()
	d.currentVoltage = v
	restoreInterrupts(state)
}

// TargetVoltage returns the last setpoint received with SET_VOLTAGE.
func (d *DeviceState) TargetVoltage() uint16 {
	state := disableInterrupts()
	v := d.targetVoltage
	restoreInterrupts(state)
	return v
}

// Snapshot is a consistent copy of DeviceState.
type Snapshot struct {
	PulseCount     uint32
	Counting       bool
	CurrentVoltage uint16
	TargetVoltage  uint16
}

// Snapshot copies the state with interrupts held off.
func (d *DeviceState) Snapshot() Snapshot {
	state := disableInterrupts()
	s := Snapshot{
		PulseCount:     d.pulses.Load(),
		Counting:       d.counting.Load(),
		CurrentVoltage: d.currentVoltage,
		TargetVoltage:  d.targetVoltage,
	}
	restoreInterrupts(state)
	return s
}
