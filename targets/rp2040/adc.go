//go:build rp2040

package main

import "machine"

// adcSource reads the output voltage monitor on an ADC pin. Readings are
// reduced to the converter's native 12 bits so they share a scale with the
// DAC setpoint.
type adcSource struct {
	adc machine.ADC
}

func newADCSource(pin machine.Pin) *adcSource {
	machine.InitADC()
	s := &adcSource{adc: machine.ADC{Pin: pin}}
	s.adc.Configure(machine.ADCConfig{})
	return s
}

// ReadVoltage implements core.VoltageSource
func (s *adcSource) ReadVoltage() (uint16, error) {
	return s.adc.Get() >> 4, nil
}
