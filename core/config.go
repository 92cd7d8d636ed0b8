package core

// VoltageFraming selects how GET_VOLTAGE responses are laid out on the
// wire. The firmware sketches disagreed on this, so it is versioned.
type VoltageFraming uint8

const (
	// FramingLowFirst16 is protocol v2: two bytes, low byte first.
	FramingLowFirst16 VoltageFraming = iota

	// FramingHigh8 is protocol v1: a single byte holding the high byte.
	FramingHigh8
)

// Length returns the number of bytes in a voltage response.
func (f VoltageFraming) Length() int {
	if f == FramingHigh8 {
		return 1
	}
	return 2
}

// MaxSetpoint is the largest SET_VOLTAGE value the 12-bit DAC can output.
const MaxSetpoint = 0x0FFF

// DefaultAddress is the slave address used by the reference board.
const DefaultAddress = 0x50

// Config holds the engine options.
type Config struct {
	// Address is the 7-bit slave address. Only used by the bus shim.
	Address uint8

	// Framing selects the GET_VOLTAGE response layout.
	Framing VoltageFraming

	// StrictOpcodes reports UnexpectedOpcode for unregistered opcodes.
	// They still select the counter read.
	StrictOpcodes bool

	// ZeroOutputOnStop also drives the DAC to zero on STOP.
	ZeroOutputOnStop bool

	// OverrunByte is staged when the master reads past the response.
	OverrunByte byte
}

// DefaultConfig returns the reference board configuration.
func DefaultConfig() Config {
	return Config{
		Address:     DefaultAddress,
		Framing:     FramingLowFirst16,
		OverrunByte: 0xFF,
	}
}
