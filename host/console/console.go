// Package console drives a counter board over its serial command link.
package console

import (
	"fmt"
	"io"
	"time"

	"gmcounter/core"
	"gmcounter/protocol"
)

// DefaultTimeout bounds each ACK and response wait.
const DefaultTimeout = time.Second

// Client issues protocol commands over a HostLink. Every command answers
// with a status report, which the client keeps as Last.
type Client struct {
	link    *protocol.HostLink
	Timeout time.Duration
	Last    protocol.Status
}

// New starts a host link on port.
func New(port io.ReadWriteCloser) *Client {
	return &Client{
		link:    protocol.NewHostLink(port),
		Timeout: DefaultTimeout,
	}
}

// Close stops the link and closes the port.
func (c *Client) Close() error {
	return c.link.Close()
}

// Exec runs op on the device and returns the resulting status. A device
// side rejection comes back as a *core.ProtocolError.
func (c *Client) Exec(op core.Opcode, value uint16) (protocol.Status, error) {
	msg, err := c.link.Request(protocol.MsgCommand, func(output protocol.OutputBuffer) {
		protocol.EncodeCommand(output, uint8(op), uint32(value))
	}, protocol.MsgStatus, c.timeout())
	if err != nil {
		return protocol.Status{}, fmt.Errorf("%s: %w", op, err)
	}
	return c.status(msg)
}

// Status queries the device state without running a command.
func (c *Client) Status() (protocol.Status, error) {
	msg, err := c.link.Request(protocol.MsgQueryStatus, nil, protocol.MsgStatus, c.timeout())
	if err != nil {
		return protocol.Status{}, fmt.Errorf("status: %w", err)
	}
	return c.status(msg)
}

func (c *Client) status(msg protocol.Message) (protocol.Status, error) {
	args := msg.Args
	if msg.ID == protocol.MsgError {
		kind, op, err := protocol.DecodeError(&args)
		if err != nil {
			return protocol.Status{}, fmt.Errorf("decode error report: %w", err)
		}
		return protocol.Status{}, &core.ProtocolError{Kind: core.ErrorKind(kind), Opcode: core.Opcode(op)}
	}

	s, err := protocol.DecodeStatus(&args)
	if err != nil {
		return protocol.Status{}, fmt.Errorf("decode status: %w", err)
	}
	c.Last = s
	return s, nil
}

func (c *Client) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Client) command(op core.Opcode, value uint16) error {
	_, err := c.Exec(op, value)
	return err
}

// Start enables counting.
func (c *Client) Start() error { return c.command(core.OpStart, 0) }

// Stop disables counting.
func (c *Client) Stop() error { return c.command(core.OpStop, 0) }

// Reset zeroes the counter.
func (c *Client) Reset() error { return c.command(core.OpReset, 0) }

// SetVoltage sends a new DAC setpoint.
func (c *Client) SetVoltage(v uint16) error { return c.command(core.OpSetVoltage, v) }

// Voltage returns the sampled output voltage.
func (c *Client) Voltage() (uint16, error) {
	s, err := c.Status()
	return s.Voltage, err
}

// Count returns the pulse counter.
func (c *Client) Count() (uint32, error) {
	s, err := c.Status()
	return s.Count, err
}
