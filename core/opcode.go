package core

// Opcode is the first byte of a master write and selects the command.
type Opcode uint8

// Command opcodes understood by the slave. Any other value selects the
// default counter read.
const (
	OpStart      Opcode = 0x01
	OpStop       Opcode = 0x02
	OpReset      Opcode = 0x03
	OpSetVoltage Opcode = 0x04
	OpGetVoltage Opcode = 0x05
)

// MaxArguments is the number of data bytes that can follow an opcode.
// The receive buffer holds the opcode plus this many bytes.
const MaxArguments = 2

// Known reports whether op is one of the built-in commands.
func (op Opcode) Known() bool {
	return op >= OpStart && op <= OpGetVoltage
}

// Arguments returns how many data bytes follow the built-in opcode.
func (op Opcode) Arguments() int {
	if op == OpSetVoltage {
		return 2
	}
	return 0
}

func (op Opcode) String() string {
	switch op {
	case OpStart:
		return "START"
	case OpStop:
		return "STOP"
	case OpReset:
		return "RESET"
	case OpSetVoltage:
		return "SET_VOLTAGE"
	case OpGetVoltage:
		return "GET_VOLTAGE"
	}
	return "COUNTER(0x" + hex8(uint8(op)) + ")"
}
