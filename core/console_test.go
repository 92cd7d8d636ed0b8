package core

import (
	"testing"

	"gmcounter/protocol"
)

// consoleRig feeds frames into a console and decodes what it sends back.
type consoleRig struct {
	t       *testing.T
	engine  *Engine
	console *Console
	link    *protocol.Link
	out     *protocol.ScratchOutput
	seq     uint8
}

func newConsoleRig(t *testing.T, cfg Config) (*consoleRig, *MockDAC) {
	e, dac, _ := newTestEngine(cfg)
	out := protocol.NewScratchOutput()
	c, link := AttachConsole(e, out)
	return &consoleRig{t: t, engine: e, console: c, link: link, out: out, seq: protocol.MessageDest}, dac
}

// send delivers one message and returns the payloads of every non-ACK
// frame the device wrote in response.
func (r *consoleRig) send(msgID uint32, args func(output protocol.OutputBuffer)) [][]byte {
	r.t.Helper()
	in := protocol.NewScratchOutput()
	protocol.EncodeFrame(in, r.seq, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, msgID)
		if args != nil {
			args(output)
		}
	})
	r.seq = protocol.NextSequence(r.seq)

	r.link.Receive(protocol.NewSliceInputBuffer(in.Result()))

	var payloads [][]byte
	data := r.out.Result()
	for len(data) > 0 {
		n := int(data[protocol.MessagePositionLen])
		if n < protocol.MessageLengthMin || n > len(data) {
			r.t.Fatalf("Malformed output %X", r.out.Result())
		}
		if payload := data[protocol.MessageHeaderSize : n-protocol.MessageTrailerSize]; len(payload) > 0 {
			payloads = append(payloads, append([]byte(nil), payload...))
		}
		data = data[n:]
	}
	r.out.Reset()
	return payloads
}

func (r *consoleRig) command(op Opcode, value uint32) [][]byte {
	return r.send(protocol.MsgCommand, func(output protocol.OutputBuffer) {
		protocol.EncodeCommand(output, uint8(op), value)
	})
}

func decodeStatusReply(t *testing.T, payloads [][]byte) protocol.Status {
	t.Helper()
	if len(payloads) != 1 {
		t.Fatalf("Expected one reply, got %d", len(payloads))
	}
	data := payloads[0]
	id, err := protocol.DecodeVLQUint(&data)
	if err != nil || id != protocol.MsgStatus {
		t.Fatalf("Reply id=%d err=%v, expected status", id, err)
	}
	s, err := protocol.DecodeStatus(&data)
	if err != nil {
		t.Fatalf("DecodeStatus: %v", err)
	}
	return s
}

func TestConsoleCommands(t *testing.T) {
	r, dac := newConsoleRig(t, DefaultConfig())

	s := decodeStatusReply(t, r.command(OpStart, 0))
	if !s.Counting {
		t.Error("START over the console did not enable counting")
	}

	r.engine.State().RecordPulses(12)
	r.engine.State().SetCurrentVoltage(0x0321)

	s = decodeStatusReply(t, r.command(OpSetVoltage, 0x1234))
	if s.Target != 0x1234 || s.Count != 12 || s.Voltage != 0x0321 {
		t.Errorf("Status after SET_VOLTAGE = %+v", s)
	}
	if len(dac.Values) != 1 || dac.Values[0] != 0x1234 {
		t.Errorf("DAC writes = %v", dac.Values)
	}

	s = decodeStatusReply(t, r.command(OpReset, 0))
	if s.Count != 0 || !s.Counting {
		t.Errorf("Status after RESET = %+v", s)
	}
}

func TestConsoleQueryStatus(t *testing.T) {
	r, _ := newConsoleRig(t, DefaultConfig())
	r.engine.State().Pulses().Add(99)

	s := decodeStatusReply(t, r.send(protocol.MsgQueryStatus, nil))
	if s.Count != 99 || s.Counting {
		t.Errorf("Status = %+v", s)
	}
}

func TestConsoleReportsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictOpcodes = true
	r, _ := newConsoleRig(t, cfg)

	payloads := r.command(0x42, 0)
	if len(payloads) != 1 {
		t.Fatalf("Expected one reply, got %d", len(payloads))
	}
	data := payloads[0]
	id, _ := protocol.DecodeVLQUint(&data)
	kind, op, err := protocol.DecodeError(&data)
	if id != protocol.MsgError || err != nil {
		t.Fatalf("Reply id=%d err=%v, expected error report", id, err)
	}
	if ErrorKind(kind) != UnexpectedOpcode || op != 0x42 {
		t.Errorf("Error report kind=%v op=0x%02X", ErrorKind(kind), op)
	}
	if r.link.HandlerErr != 0 {
		t.Errorf("A rejected command is not a link fault, HandlerErr=%d", r.link.HandlerErr)
	}
}

func TestConsoleUnknownMessage(t *testing.T) {
	r, _ := newConsoleRig(t, DefaultConfig())

	if payloads := r.send(99, nil); len(payloads) != 0 {
		t.Errorf("Unknown message produced %d replies", len(payloads))
	}
	if r.link.HandlerErr != 1 {
		t.Errorf("HandlerErr = %d, expected 1", r.link.HandlerErr)
	}
}

func TestConsoleSharesStateWithBus(t *testing.T) {
	r, _ := newConsoleRig(t, DefaultConfig())
	r.command(OpStart, 0)

	if err := writeTx(t, r.engine, byte(OpStop)); err != nil {
		t.Fatalf("STOP over I2C: %v", err)
	}
	s := decodeStatusReply(t, r.send(protocol.MsgQueryStatus, nil))
	if s.Counting {
		t.Error("Console does not see STOP issued on the bus")
	}
}

func decodeErrorReply(t *testing.T, payloads [][]byte) (ErrorKind, Opcode) {
	t.Helper()
	if len(payloads) != 1 {
		t.Fatalf("Expected one reply, got %d", len(payloads))
	}
	data := payloads[0]
	id, err := protocol.DecodeVLQUint(&data)
	if err != nil || id != protocol.MsgError {
		t.Fatalf("Reply id=%d err=%v, expected error report", id, err)
	}
	kind, op, err := protocol.DecodeError(&data)
	if err != nil {
		t.Fatalf("DecodeError: %v", err)
	}
	return ErrorKind(kind), Opcode(op)
}

func TestConsoleSetVoltageRange(t *testing.T) {
	r, dac := newConsoleRig(t, DefaultConfig())

	s := decodeStatusReply(t, r.command(OpSetVoltage, MaxSetpoint))
	if s.Target != MaxSetpoint {
		t.Errorf("Target = 0x%X, expected 0x%X", s.Target, MaxSetpoint)
	}

	for _, value := range []uint32{MaxSetpoint + 1, 5000, 0x10000, 0xFFFFFFFF} {
		kind, op := decodeErrorReply(t, r.command(OpSetVoltage, value))
		if kind != ValueOutOfRange || op != OpSetVoltage {
			t.Errorf("SET_VOLTAGE %d: kind=%v op=%v", value, kind, op)
		}
		if target := r.engine.State().TargetVoltage(); target != MaxSetpoint {
			t.Errorf("SET_VOLTAGE %d changed target to 0x%X", value, target)
		}
	}

	if len(dac.Values) != 1 || dac.Values[0] != MaxSetpoint {
		t.Errorf("DAC writes = %v, expected only the in-range value", dac.Values)
	}
}

func TestConsoleCustomValueWidth(t *testing.T) {
	r, _ := newConsoleRig(t, DefaultConfig())
	var got []byte
	err := r.engine.RegisterCommand(0x20, 1, func(state *DeviceState, args []byte) error {
		got = append(got, args...)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	decodeStatusReply(t, r.command(0x20, 0xAB))
	if kind, _ := decodeErrorReply(t, r.command(0x20, 0x100)); kind != ValueOutOfRange {
		t.Errorf("Oversized value kind = %v", kind)
	}
	if len(got) != 1 || got[0] != 0xAB {
		t.Errorf("Command saw %X", got)
	}
}
