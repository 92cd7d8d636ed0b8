//go:build rp2040 || rp2350

package pio

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Pulse counter program. X counts down once per rising edge; the CPU
// samples it by executing mov/push on the state machine, so nothing is
// queued between reads.
//
//	.wrap_target
//	0: wait 0 gpio N
//	1: wait 1 gpio N
//	2: jmp x-- 0
//	.wrap
const (
	instrWaitLow   = 0x2000 // wait 0 gpio, index in bits 0-4
	instrWaitHigh  = 0x2080 // wait 1 gpio, index in bits 0-4
	instrJmpXDec   = 0x0040 // jmp x-- 0
	instrMovISRX   = 0xA0C1 // mov isr, x
	instrPushNoBlk = 0x8000 // push noblock
	instrMovXNull  = 0xA023 // mov x, null
)

const pulsePIOOrigin = 0 // Load at offset 0 for correct jump addresses

var ErrNoStateMachine = errors.New("pio: no free state machine")

func buildPulseProgram(pin uint8) []uint16 {
	return []uint16{
		instrWaitLow | uint16(pin&0x1F),
		instrWaitHigh | uint16(pin&0x1F),
		instrJmpXDec,
	}
}

// PulseCounter counts rising edges on a pin with a PIO state machine, so
// no CPU time is spent per edge. Drain it from the main loop.
type PulseCounter struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
	pioNum uint8
	smNum  uint8
	last   uint32
}

// NewPulseCounter claims a state machine and starts counting edges on pin.
func NewPulseCounter(pin machine.Pin) (*PulseCounter, error) {
	pioNum, smNum, ok := allocatePIO()
	if !ok {
		return nil, ErrNoStateMachine
	}

	c := &PulseCounter{pin: pin, pioNum: pioNum, smNum: smNum}
	if pioNum == 0 {
		c.pio = rp2pio.PIO0
	} else {
		c.pio = rp2pio.PIO1
	}
	c.sm = c.pio.StateMachine(smNum)
	c.sm.TryClaim()

	program := buildPulseProgram(uint8(pin))
	offset, err := c.pio.AddProgram(program, pulsePIOOrigin)
	if err != nil {
		releasePIO(pioNum, smNum)
		return nil, err
	}
	c.offset = offset

	pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetWrap(offset, offset+uint8(len(program))-1)

	c.sm.Init(offset, cfg)
	c.sm.Exec(instrMovXNull)
	c.sm.SetEnabled(true)
	return c, nil
}

// Name returns the backend name
func (c *PulseCounter) Name() string {
	return "PIO"
}

// Drain returns the edges seen since the previous call.
func (c *PulseCounter) Drain() uint32 {
	for !c.sm.IsRxFIFOEmpty() {
		c.sm.RxGet()
	}
	c.sm.Exec(instrMovISRX)
	c.sm.Exec(instrPushNoBlk)
	if c.sm.IsRxFIFOEmpty() {
		return 0
	}

	total := 0 - c.sm.RxGet()
	delta := total - c.last
	c.last = total
	return delta
}
