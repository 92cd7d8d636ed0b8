//go:build rp2040

package main

import (
	"fmt"
	"machine"

	"gmcounter/core"
)

var (
	// slaveFaults counts protocol errors raised on the slave bus
	slaveFaults uint32
)

// serveI2C runs the slave bus. TinyGo delivers whole transfers rather
// than one interrupt per byte, so each transfer is replayed into the
// engine as the address event followed by its data events.
func serveI2C(bus *machine.I2C, engine *core.Engine) error {
	err := bus.Configure(machine.I2CConfig{
		Mode: machine.I2CModeTarget,
		SDA:  pinSlaveSDA,
		SCL:  pinSlaveSCL,
	})
	if err != nil {
		return fmt.Errorf("configure slave bus: %w", err)
	}

	if err := bus.Listen(uint16(engine.Config().Address)); err != nil {
		return fmt.Errorf("listen on 0x%02x: %w", engine.Config().Address, err)
	}
	core.DebugPrintln("[I2C] listening")

	var buf [8]byte
	var reply [4]byte
	for {
		evt, n, err := bus.WaitForEvent(buf[:])
		if err != nil {
			return fmt.Errorf("wait for event: %w", err)
		}

		switch evt {
		case machine.I2CReceive:
			handle(engine, core.AddressEvent(core.DirWrite))
			for _, b := range buf[:n] {
				handle(engine, core.WriteEvent(b))
			}

		case machine.I2CRequest:
			a := handle(engine, core.AddressEvent(core.DirRead))
			reply[0] = a.Byte
			s := engine.Session()
			size := len(s.Response())
			for i := 1; i < size; i++ {
				reply[i] = handle(engine, core.ReadEvent()).Byte
			}
			if err := bus.Reply(reply[:size]); err != nil {
				core.DebugAsync("[I2C] reply: " + err.Error())
			}

		case machine.I2CFinish:
		}
	}
}

func handle(engine *core.Engine, ev core.Event) core.Action {
	a, err := engine.HandleEvent(ev)
	if err != nil {
		slaveFaults++
		if core.IsDebugEnabled() {
			core.DebugAsync("[I2C] " + err.Error())
		}
	}
	return a
}
