//go:build rp2040 || rp2350

package main

// PIO Pulse Counter Loopback Test
// Jumper GP3 (pulse out) to GP2 (counter in). Each burst must be counted
// exactly; watch the console.

import (
	"machine"
	"time"

	"gmcounter/targets/pio"
)

const (
	outPin = machine.GPIO3
	inPin  = machine.GPIO2
)

var bursts = []uint32{1, 10, 100, 1000, 25000}

func main() {
	time.Sleep(3 * time.Second)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	outPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	outPin.Low()

	println("=== PIO Pulse Counter Loopback ===")
	println("Out: GP3, In: GP2")

	counter, err := pio.NewPulseCounter(inPin)
	if err != nil {
		println("Init error:", err.Error())
		for {
			led.Set(!led.Get())
			time.Sleep(100 * time.Millisecond)
		}
	}
	println("Init OK, backend", counter.Name())

	cycle := 0
	for {
		cycle++
		println("\n=== Cycle", cycle, "===")

		failures := 0
		for _, n := range bursts {
			counter.Drain()
			for i := uint32(0); i < n; i++ {
				outPin.High()
				time.Sleep(2 * time.Microsecond)
				outPin.Low()
				time.Sleep(2 * time.Microsecond)
			}
			time.Sleep(time.Millisecond)

			got := counter.Drain()
			if got == n {
				println("  burst", n, "ok")
			} else {
				failures++
				println("  burst", n, "FAIL got", got)
			}
		}

		led.Set(failures == 0)
		time.Sleep(2 * time.Second)
	}
}
