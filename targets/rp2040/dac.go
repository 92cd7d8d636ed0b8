//go:build rp2040

package main

import (
	"fmt"
	"machine"

	"gmcounter/driver/mcp4725"
)

// newDAC brings up I2C0 as controller and parks the MCP4725 at zero.
func newDAC() (*mcp4725.Device, error) {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		Frequency: dacFrequency,
		SDA:       pinDACSDA,
		SCL:       pinDACSCL,
	})
	if err != nil {
		return nil, fmt.Errorf("configure dac bus: %w", err)
	}

	dac := mcp4725.New(bus, mcp4725.DefaultAddress)
	if err := dac.SetValue(0); err != nil {
		return nil, fmt.Errorf("dac: %w", err)
	}
	return dac, nil
}
