package protocol

// Message ids. The table is fixed; both ends are built from this package.
const (
	MsgCommand     uint32 = 1 // host -> device: opcode=%c value=%u
	MsgQueryStatus uint32 = 2 // host -> device
	MsgStatus      uint32 = 3 // device -> host: count=%u counting=%c voltage=%hu target=%hu
	MsgError       uint32 = 4 // device -> host: kind=%c opcode=%c
)

// Status is the device state reported over the link.
type Status struct {
	Count    uint32
	Counting bool
	Voltage  uint16
	Target   uint16
}

// EncodeCommand writes the arguments of MsgCommand.
func EncodeCommand(output OutputBuffer, opcode uint8, value uint32) {
	EncodeVLQUint(output, uint32(opcode))
	EncodeVLQUint(output, value)
}

// DecodeCommand reads the arguments of MsgCommand.
func DecodeCommand(data *[]byte) (opcode uint8, value uint32, err error) {
	op, err := DecodeVLQUint(data)
	if err != nil {
		return 0, 0, err
	}
	value, err = DecodeVLQUint(data)
	if err != nil {
		return 0, 0, err
	}
	return uint8(op), value, nil
}

// EncodeStatus writes the arguments of MsgStatus.
func EncodeStatus(output OutputBuffer, s Status) {
	counting := uint32(0)
	if s.Counting {
		counting = 1
	}
	EncodeVLQUint(output, s.Count)
	EncodeVLQUint(output, counting)
	EncodeVLQUint(output, uint32(s.Voltage))
	EncodeVLQUint(output, uint32(s.Target))
}

// DecodeStatus reads the arguments of MsgStatus.
func DecodeStatus(data *[]byte) (Status, error) {
	var s Status
	var vals [4]uint32
	for i := range vals {
		v, err := DecodeVLQUint(data)
		if err != nil {
			return Status{}, err
		}
		vals[i] = v
	}
	s.Count = vals[0]
	s.Counting = vals[1] != 0
	s.Voltage = uint16(vals[2])
	s.Target = uint16(vals[3])
	return s, nil
}

// EncodeError writes the arguments of MsgError.
func EncodeError(output OutputBuffer, kind, opcode uint8) {
	EncodeVLQUint(output, uint32(kind))
	EncodeVLQUint(output, uint32(opcode))
}

// DecodeError reads the arguments of MsgError.
func DecodeError(data *[]byte) (kind, opcode uint8, err error) {
	k, err := DecodeVLQUint(data)
	if err != nil {
		return 0, 0, err
	}
	op, err := DecodeVLQUint(data)
	if err != nil {
		return 0, 0, err
	}
	return uint8(k), uint8(op), nil
}
