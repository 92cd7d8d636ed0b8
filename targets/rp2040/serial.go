//go:build rp2040

package main

import "machine"

// InitSerial configures the console port. On RP2040 machine.Serial is USB
// CDC; the descriptors are set by TinyGo's runtime.
func InitSerial() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// SerialAvailable returns the number of bytes waiting on the console
func SerialAvailable() int {
	return machine.Serial.Buffered()
}

// SerialRead reads a single byte from the console
func SerialRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// SerialWriteBytes writes multiple bytes to the console
func SerialWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
