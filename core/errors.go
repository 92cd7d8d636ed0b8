package core

// ErrorKind classifies protocol faults detected by the engine.
type ErrorKind uint8

const (
	// UnexpectedOpcode is reported for opcodes with no registered command
	// when Config.StrictOpcodes is set.
	UnexpectedOpcode ErrorKind = iota + 1

	// ReceiveOverflow is reported when a command would need more data
	// bytes than the receive buffer can hold.
	ReceiveOverflow

	// ReadBeyondResponseLength is reported when the master keeps clocking
	// reads after the response has been fully sent.
	ReadBeyondResponseLength

	// TruncatedCommand is reported by Execute when a command is given
	// fewer data bytes than it needs.
	TruncatedCommand

	// ValueOutOfRange is reported by the console when a command value does
	// not fit its argument bytes or exceeds the DAC range.
	ValueOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedOpcode:
		return "unexpected opcode"
	case ReceiveOverflow:
		return "receive overflow"
	case ReadBeyondResponseLength:
		return "read beyond response length"
	case TruncatedCommand:
		return "truncated command"
	case ValueOutOfRange:
		return "value out of range"
	}
	return "unknown protocol error"
}

// ProtocolError describes a fault in a bus transaction. The engine never
// stalls on one; the bus driver decides whether to NACK.
type ProtocolError struct {
	Kind   ErrorKind
	Opcode Opcode
	Index  int // receive or send index at the time of the fault
}

func (e *ProtocolError) Error() string {
	return e.Kind.String() + ": opcode " + e.Opcode.String() + " at index " + itoa(e.Index)
}

// Is matches any *ProtocolError of the same kind, so the sentinels below
// work with errors.Is.
func (e *ProtocolError) Is(target error) bool {
	t, ok := target.(*ProtocolError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnexpectedOpcode         = &ProtocolError{Kind: UnexpectedOpcode}
	ErrReceiveOverflow          = &ProtocolError{Kind: ReceiveOverflow}
	ErrReadBeyondResponseLength = &ProtocolError{Kind: ReadBeyondResponseLength}
	ErrTruncatedCommand         = &ProtocolError{Kind: TruncatedCommand}
	ErrValueOutOfRange          = &ProtocolError{Kind: ValueOutOfRange}
)

// CollaboratorError wraps a failure reported by the DAC or indicator
// while a command was applied. Device state has already been updated.
type CollaboratorError struct {
	Opcode Opcode
	Err    error
}

func (e *CollaboratorError) Error() string {
	return e.Opcode.String() + ": " + e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
