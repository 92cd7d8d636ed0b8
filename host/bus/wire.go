package bus

import (
	"errors"
	"fmt"

	"gmcounter/core"
)

// selectCounter is an opcode with no command behind it. Writing it makes
// the next read return the counter without touching device state.
const selectCounter core.Opcode = 0x00

var ErrShortRead = errors.New("bus: short read")

// EncodeCommand returns the write for op. Only SET_VOLTAGE carries value,
// high byte first.
func EncodeCommand(op core.Opcode, value uint16) []byte {
	if op == core.OpSetVoltage {
		return []byte{byte(op), byte(value >> 8), byte(value)}
	}
	return []byte{byte(op)}
}

// DecodeCount decodes the 4-byte counter read, most significant byte first.
func DecodeCount(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("counter: %w (%d of 4 bytes)", ErrShortRead, len(b))
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// DecodeVoltage decodes a GET_VOLTAGE read in the given framing.
func DecodeVoltage(f core.VoltageFraming, b []byte) (uint16, error) {
	if len(b) < f.Length() {
		return 0, fmt.Errorf("voltage: %w (%d of %d bytes)", ErrShortRead, len(b), f.Length())
	}
	if f == core.FramingHigh8 {
		return uint16(b[0]) << 8, nil
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}
