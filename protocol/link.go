package protocol

// Handler handles one decoded message. It decodes its own arguments from
// data and must leave data positioned after them.
type Handler func(msgID uint32, data *[]byte) error

// Link is the device end of the serial link. Receive is fed from the main
// loop; every frame is answered with an ACK carrying the next expected
// sequence, which doubles as a NAK when a frame was out of order.
type Link struct {
	scan          scanner
	nextSequence  uint8
	output        OutputBuffer
	handler       Handler
	resetCallback func() // called when the host restarts its sequence
	flushCallback func() // called after each ACK so it leaves immediately

	// Counters for the status display
	Frames     uint32
	Dropped    uint32
	HandlerErr uint32
}

// NewLink creates a device link writing to output
func NewLink(output OutputBuffer, handler Handler) *Link {
	return &Link{
		nextSequence: MessageDest,
		output:       output,
		handler:      handler,
	}
}

// Receive consumes complete frames from input
func (l *Link) Receive(input InputBuffer) {
	consumed := l.scan.scan(input.Data(), l.handleFrame, l.encodeAck)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

func (l *Link) handleFrame(f Frame) {
	if f.Sequence == MessageDest && l.nextSequence != MessageDest {
		l.nextSequence = MessageDest
		if l.resetCallback != nil {
			l.resetCallback()
		}
	}

	if f.Sequence == l.nextSequence {
		l.nextSequence = NextSequence(f.Sequence)
		l.Frames++
		l.dispatch(f.Payload)
	} else {
		l.Dropped++
	}
	l.encodeAck()
}

// dispatch runs every message in a frame payload through the handler.
// A malformed id stops the frame; a panicking handler forces a resync.
func (l *Link) dispatch(payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			l.HandlerErr++
			l.scan.desynced = true
		}
	}()

	for len(payload) > 0 {
		msgID, err := DecodeVLQUint(&payload)
		if err != nil {
			l.HandlerErr++
			return
		}
		if l.handler == nil {
			return
		}
		if err := l.handler(msgID, &payload); err != nil {
			l.HandlerErr++
			return
		}
	}
}

func (l *Link) encodeAck() {
	EncodeAck(l.output, l.nextSequence)
	if l.flushCallback != nil {
		l.flushCallback()
	}
}

// Send encodes a message frame using the current sequence
func (l *Link) Send(msgID uint32, args func(output OutputBuffer)) bool {
	return EncodeFrame(l.output, l.nextSequence, func(output OutputBuffer) {
		EncodeVLQUint(output, msgID)
		if args != nil {
			args(output)
		}
	})
}

// Reset returns the link to its power-on state
func (l *Link) Reset() {
	l.scan.desynced = false
	l.nextSequence = MessageDest
	if l.resetCallback != nil {
		l.resetCallback()
	}
}

// SetResetCallback sets a callback for host-initiated resets
func (l *Link) SetResetCallback(callback func()) {
	l.resetCallback = callback
}

// SetFlushCallback sets a callback used to push ACKs out immediately
func (l *Link) SetFlushCallback(callback func()) {
	l.flushCallback = callback
}
