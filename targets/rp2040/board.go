//go:build rp2040

package main

import (
	"machine"
	"time"
)

// Board wiring. The slave bus sits on I2C1 so I2C0 stays free for the DAC.
const (
	pinPulse     = machine.GPIO2
	pinIndicator = machine.LED

	pinSlaveSDA = machine.GPIO6
	pinSlaveSCL = machine.GPIO7

	pinDACSDA = machine.GPIO4
	pinDACSCL = machine.GPIO5

	pinVoltage = machine.ADC0
)

const (
	// samplesPerPoll is the ADC oversampling factor for GET_VOLTAGE
	samplesPerPoll = 8

	// dacFrequency is the I2C0 master clock used for the DAC
	dacFrequency = 400 * machine.KHz

	sampleInterval = 2 * time.Millisecond

	// debugOutput enables println diagnostics. They share the USB port
	// with the console link, so leave it off when gmctl is attached.
	debugOutput = false
)
