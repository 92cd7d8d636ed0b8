// Package bus drives a counter board as I2C master from a Linux host.
package bus

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"gmcounter/core"
)

// Client issues protocol commands to one board.
type Client struct {
	dev     conn.Conn
	closer  i2c.BusCloser
	framing core.VoltageFraming
}

// Open initialises the host drivers and opens busName ("" for the first
// bus found) with the board at addr.
func Open(busName string, addr uint16, framing core.VoltageFraming) (*Client, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}

	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("could not open bus %q: %w", busName, err)
	}

	c := New(&i2c.Dev{Bus: b, Addr: addr}, framing)
	c.closer = b
	return c, nil
}

// New wraps an existing connection to a board.
func New(dev conn.Conn, framing core.VoltageFraming) *Client {
	return &Client{dev: dev, framing: framing}
}

func (c *Client) String() string {
	return "gmcounter(" + c.dev.String() + ")"
}

// Close releases the bus if Open created it.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *Client) command(op core.Opcode, value uint16) error {
	if err := c.dev.Tx(EncodeCommand(op, value), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Start enables counting.
func (c *Client) Start() error { return c.command(core.OpStart, 0) }

// Stop disables counting.
func (c *Client) Stop() error { return c.command(core.OpStop, 0) }

// Reset zeroes the counter.
func (c *Client) Reset() error { return c.command(core.OpReset, 0) }

// SetVoltage sends a new DAC setpoint.
func (c *Client) SetVoltage(v uint16) error { return c.command(core.OpSetVoltage, v) }

// Voltage selects GET_VOLTAGE and reads the reply after a repeated start.
func (c *Client) Voltage() (uint16, error) {
	var buf [2]byte
	r := buf[:c.framing.Length()]
	if err := c.dev.Tx(EncodeCommand(core.OpGetVoltage, 0), r); err != nil {
		return 0, fmt.Errorf("%s: %w", core.OpGetVoltage, err)
	}
	return DecodeVoltage(c.framing, r)
}

// Count reads the pulse counter. The counter is selected first since a
// preceding GET_VOLTAGE would otherwise still own the read.
func (c *Client) Count() (uint32, error) {
	var buf [4]byte
	if err := c.dev.Tx([]byte{byte(selectCounter)}, buf[:]); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return DecodeCount(buf[:])
}
