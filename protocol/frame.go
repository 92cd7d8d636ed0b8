package protocol

// Frame is one validated message block.
type Frame struct {
	Sequence uint8
	Payload  []byte // aliases the input; copy before keeping it
}

// scanner splits a byte stream into frames and tracks synchronisation.
// After a bad frame it discards input up to the next sync byte.
type scanner struct {
	desynced bool
}

// scan walks data, calling emit for every valid frame and onResync each
// time synchronisation is regained. It returns the number of bytes
// consumed; the remainder is an incomplete frame.
func (s *scanner) scan(data []byte, emit func(Frame), onResync func()) int {
	start := len(data)
	for len(data) > 0 {
		if s.desynced {
			i := indexSync(data)
			if i < 0 {
				data = nil
				break
			}
			data = data[i+1:]
			s.desynced = false
			if onResync != nil {
				onResync()
			}
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}
		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			s.desynced = true
			continue
		}
		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			s.desynced = true
			continue
		}
		if len(data) < msgLen {
			break
		}
		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			s.desynced = true
			continue
		}
		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 | uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			s.desynced = true
			continue
		}

		emit(Frame{
			Sequence: seq,
			Payload:  data[MessageHeaderSize : msgLen-MessageTrailerSize],
		})
		data = data[msgLen:]
	}
	return start - len(data)
}

func indexSync(data []byte) int {
	for i, b := range data {
		if b == MessageValueSync {
			return i
		}
	}
	return -1
}

// EncodeFrame appends a complete frame with the given sequence byte to
// output. payload writes the message body. It returns false and rolls the
// output back if the frame would exceed MessageLengthMax.
func EncodeFrame(output OutputBuffer, seq uint8, payload func(output OutputBuffer)) bool {
	cursor := output.CurPosition()
	output.Output([]byte{0, seq})
	if payload != nil {
		payload(output)
	}

	length := len(output.DataSince(cursor)) + MessageTrailerSize
	if length > MessageLengthMax {
		if t, ok := output.(interface{ Truncate(pos int) }); ok {
			t.Truncate(cursor)
		}
		return false
	}
	output.Update(cursor, uint8(length))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{uint8(crc >> 8), uint8(crc), MessageValueSync})
	return true
}

// EncodeAck appends an empty frame carrying seq, used as ACK/NAK.
func EncodeAck(output OutputBuffer, seq uint8) {
	EncodeFrame(output, seq, nil)
}
