package core

// maxResponse is the longest response: the 32-bit counter.
const maxResponse = 4

// Session is the per-transaction protocol state. It is reset at every
// address match and persists across the data interrupts of one
// transaction.
type Session struct {
	Received     [1 + MaxArguments]byte
	ReceiveIndex int
	SendIndex    int
	Expected     int    // data bytes the current opcode needs
	Command      Opcode // last decoded opcode, selects the read response
	Staged       byte   // last byte loaded for transmission

	// response is captured once at the read address match so every byte
	// of one read comes from the same counter value.
	response    [maxResponse]byte
	responseLen int
}

// Response returns the bytes captured for the current read transaction.
func (s *Session) Response() []byte {
	return s.response[:s.responseLen]
}

func (s *Session) resetIndices() {
	s.ReceiveIndex = 0
	s.SendIndex = 0
}
