//go:build rp2040

package main

import (
	"machine"
	"time"

	"gmcounter/core"
	"gmcounter/protocol"
	"gmcounter/targets/pio"
)

// pulseSource is a hardware edge counter drained by the main loop.
type pulseSource interface {
	Name() string
	Drain() uint32
}

var (
	// Buffers for the console link
	inputBuffer  *protocol.FifoBuffer
	outputBuffer *protocol.ScratchOutput
	link         *protocol.Link

	// Debug counters
	consoleErrors  uint32
	writeFailures  uint32
	consoleResyncs uint32
	sampleFailures uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitSerial()
	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(debugOutput)
	core.InitAsyncDebug()

	state := core.NewDeviceState()
	hw := core.Collaborators{Indicator: newIndicator(pinIndicator)}
	if dac, err := newDAC(); err != nil {
		core.DebugPrintln("[DAC] " + err.Error())
	} else {
		hw.DAC = dac
	}
	engine := core.NewEngine(core.DefaultConfig(), state, hw)

	pulses := startPulseCounter(state)
	sampler := core.NewSampler(newADCSource(pinVoltage), samplesPerPoll)

	inputBuffer = protocol.NewFifoBuffer(256)
	outputBuffer = protocol.NewScratchOutput()
	_, link = core.AttachConsole(engine, outputBuffer)
	link.SetResetCallback(func() {
		consoleResyncs++
		inputBuffer.Reset()
		outputBuffer.Reset()
	})
	link.SetFlushCallback(writeSerial)

	go func() {
		if err := serveI2C(machine.I2C1, engine); err != nil {
			core.DebugPrintln("[I2C] " + err.Error())
		}
	}()
	go serialReaderLoop()

	lastSample := time.Now()
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					consoleErrors++
					inputBuffer.Reset()
					outputBuffer.Reset()
				}
			}()

			if pulses != nil {
				state.RecordPulses(pulses.Drain())
			}

			if time.Since(lastSample) >= sampleInterval {
				lastSample = time.Now()
				if err := sampler.Poll(state); err != nil {
					sampleFailures++
				}
			}

			if inputBuffer.Available() > 0 {
				input := protocol.NewSliceInputBuffer(inputBuffer.Data())
				before := input.Available()
				link.Receive(input)
				if consumed := before - input.Available(); consumed > 0 {
					inputBuffer.Pop(consumed)
				}
			}

			if len(outputBuffer.Result()) > 0 {
				writeSerial()
			}
		}()

		time.Sleep(10 * time.Microsecond)
	}
}

// startPulseCounter prefers a PIO state machine and falls back to the pin
// interrupt.
func startPulseCounter(state *core.DeviceState) pulseSource {
	pc, err := pio.NewPulseCounter(pinPulse)
	if err == nil {
		return pc
	}
	core.DebugPrintln("[PULSE] pio: " + err.Error())

	c, err := pio.NewGPIOCounter(pinPulse, state.RecordPulse)
	if err != nil {
		core.DebugPrintln("[PULSE] gpio: " + err.Error())
		return nil
	}
	return c
}

// serialReaderLoop moves console bytes into the input FIFO.
func serialReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			consoleErrors++
			time.Sleep(100 * time.Millisecond)
			go serialReaderLoop()
		}
	}()

	for {
		for SerialAvailable() > 0 {
			b, err := SerialRead()
			if err != nil {
				consoleErrors++
				break
			}
			if inputBuffer.Write([]byte{b}) == 0 {
				consoleErrors++
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// writeSerial flushes the output buffer, dropping it after a failed write.
func writeSerial() {
	result := outputBuffer.Result()
	written := 0
	for written < len(result) {
		n, err := SerialWriteBytes(result[written:])
		if err != nil || n == 0 {
			writeFailures++
			outputBuffer.Reset()
			return
		}
		written += n
	}
	outputBuffer.Reset()
}
