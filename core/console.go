package core

import (
	"errors"

	"gmcounter/protocol"
)

// Console serves the UART command link. It applies the same commands as
// the I2C slave through Engine.Execute and reports device status.
type Console struct {
	engine *Engine
	link   *protocol.Link
}

// AttachConsole creates a link on output whose messages go to a new
// console for engine.
func AttachConsole(engine *Engine, output protocol.OutputBuffer) (*Console, *protocol.Link) {
	c := &Console{engine: engine}
	c.link = protocol.NewLink(output, c.Dispatch)
	return c, c.link
}

// Dispatch handles one message from the link.
func (c *Console) Dispatch(msgID uint32, data *[]byte) error {
	switch msgID {
	case protocol.MsgCommand:
		opcode, value, err := protocol.DecodeCommand(data)
		if err != nil {
			return err
		}
		op := Opcode(opcode)
		n, _ := c.engine.arguments(op)
		if !valueFits(op, n, value) {
			c.reportError(op, &ProtocolError{Kind: ValueOutOfRange, Opcode: op, Index: n})
			return nil
		}
		var args []byte
		if n == 2 {
			args = []byte{byte(value >> 8), byte(value)}
		} else if n == 1 {
			args = []byte{byte(value)}
		}
		if err := c.engine.Execute(op, args); err != nil {
			c.reportError(op, err)
			return nil
		}
		c.SendStatus()
		return nil

	case protocol.MsgQueryStatus:
		c.SendStatus()
		return nil
	}
	return errors.New("unknown message id " + utoa(msgID))
}

// SendStatus queues a status report.
func (c *Console) SendStatus() {
	s := c.engine.State().Snapshot()
	c.link.Send(protocol.MsgStatus, func(output protocol.OutputBuffer) {
		protocol.EncodeStatus(output, protocol.Status{
			Count:    s.PulseCount,
			Counting: s.Counting,
			Voltage:  s.CurrentVoltage,
			Target:   s.TargetVoltage,
		})
	})
}

// valueFits reports whether value can be carried in n argument bytes.
// Commands without arguments ignore value. SET_VOLTAGE is further
// limited to the DAC range.
func valueFits(op Opcode, n int, value uint32) bool {
	if op == OpSetVoltage {
		return value <= MaxSetpoint
	}
	return n == 0 || n >= 4 || value>>(8*uint(n)) == 0
}

func (c *Console) reportError(op Opcode, err error) {
	var kind ErrorKind
	var pe *ProtocolError
	if errors.As(err, &pe) {
		kind = pe.Kind
	}
	DebugPrintln("[UART] " + err.Error())
	c.link.Send(protocol.MsgError, func(output protocol.OutputBuffer) {
		protocol.EncodeError(output, uint8(kind), uint8(op))
	})
}
