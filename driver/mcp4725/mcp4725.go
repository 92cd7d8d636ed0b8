// Package mcp4725 implements a driver for the Microchip MCP4725 12-bit
// I2C DAC that sets the detector high-voltage supply.
package mcp4725

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// DefaultAddress is the address with A0 tied low.
const DefaultAddress = 0x60

// MaxValue is the largest 12-bit output code.
const MaxValue = 0x0FFF

const (
	cmdWriteDAC       = 0x40
	cmdWriteDACEEPROM = 0x60
)

// PowerDown selects the output state when powered down.
type PowerDown uint8

const (
	PowerOn      PowerDown = 0 // normal operation
	PowerDown1k  PowerDown = 1 // output pulled down through 1 kOhm
	PowerDown100 PowerDown = 2 // 100 kOhm
	PowerDown500 PowerDown = 3 // 500 kOhm
)

var errShortRead = errors.New("mcp4725: short status read")

// Device is an MCP4725 on an I2C bus.
type Device struct {
	bus     drivers.I2C
	Address uint16
	buf     [5]byte
}

// New returns a device on bus at addr.
func New(bus drivers.I2C, addr uint16) *Device {
	return &Device{bus: bus, Address: addr}
}

// SetValue writes the output code with a fast-mode write. Values above
// MaxValue are clamped.
func (d *Device) SetValue(v uint16) error {
	v = clamp(v)
	d.buf[0] = byte(v>>8) & 0x0F
	d.buf[1] = byte(v)
	if err := d.bus.Tx(d.Address, d.buf[:2], nil); err != nil {
		return fmt.Errorf("mcp4725: %w", err)
	}
	return nil
}

// SetOutput implements the core DAC collaborator.
func (d *Device) SetOutput(v uint16) error {
	return d.SetValue(v)
}

// SetValuePersistent writes the output code and stores it in EEPROM so
// the DAC comes back up at this value after power loss.
func (d *Device) SetValuePersistent(v uint16) error {
	return d.write(cmdWriteDACEEPROM, PowerOn, v)
}

// PowerDown puts the output into a power-down mode, keeping the DAC
// register at v.
func (d *Device) PowerDown(mode PowerDown, v uint16) error {
	return d.write(cmdWriteDAC, mode, v)
}

func (d *Device) write(cmd byte, pd PowerDown, v uint16) error {
	v = clamp(v)
	d.buf[0] = cmd | byte(pd&0x03)<<1
	d.buf[1] = byte(v >> 4)
	d.buf[2] = byte(v<<4) & 0xF0
	if err := d.bus.Tx(d.Address, d.buf[:3], nil); err != nil {
		return fmt.Errorf("mcp4725: %w", err)
	}
	return nil
}

// Status is the decoded DAC read-back.
type Status struct {
	Ready       bool // EEPROM write finished
	PowerOnDone bool
	PowerDown   PowerDown
	Value       uint16
	EEPROMPower PowerDown
	EEPROMValue uint16
}

// Read returns the DAC register and EEPROM contents.
func (d *Device) Read() (Status, error) {
	if err := d.bus.Tx(d.Address, nil, d.buf[:5]); err != nil {
		return Status{}, fmt.Errorf("mcp4725: %w", err)
	}
	return decodeStatus(d.buf[:5])
}

func decodeStatus(b []byte) (Status, error) {
	if len(b) < 5 {
		return Status{}, errShortRead
	}
	return Status{
		Ready:       b[0]&0x80 != 0,
		PowerOnDone: b[0]&0x40 != 0,
		PowerDown:   PowerDown(b[0]>>1) & 0x03,
		Value:       uint16(b[1])<<4 | uint16(b[2]>>4),
		EEPROMPower: PowerDown(b[3]>>5) & 0x03,
		EEPROMValue: uint16(b[3]&0x0F)<<8 | uint16(b[4]),
	}, nil
}

func clamp(v uint16) uint16 {
	if v > MaxValue {
		return MaxValue
	}
	return v
}
