//go:build rp2040

package main

import "machine"

// pinIndicatorDriver drives the counting LED.
type pinIndicatorDriver struct {
	pin machine.Pin
}

func newIndicator(pin machine.Pin) *pinIndicatorDriver {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &pinIndicatorDriver{pin: pin}
}

// SetIndicator implements core.IndicatorDriver
func (d *pinIndicatorDriver) SetIndicator(on bool) error {
	d.pin.Set(on)
	return nil
}
