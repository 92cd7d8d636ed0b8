package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrLinkClosed is returned once the host link has been closed.
var ErrLinkClosed = errors.New("link closed")

// Message is a decoded device message.
type Message struct {
	Sequence uint8
	ID       uint32
	Args     []byte
}

// HostLink is the host end of the serial link. A background goroutine
// reads the port; Send waits for the device ACK and responses are queued
// on a channel.
type HostLink struct {
	port io.ReadWriteCloser

	writeMu   sync.Mutex
	seq       uint8
	requestMu sync.Mutex // one Request waits for responses at a time

	input     *FifoBuffer
	scan      scanner
	acks      chan uint8
	responses chan Message

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewHostLink starts a link over port
func NewHostLink(port io.ReadWriteCloser) *HostLink {
	l := &HostLink{
		port:      port,
		seq:       MessageDest,
		input:     NewFifoBuffer(512),
		acks:      make(chan uint8, 4),
		responses: make(chan Message, 16),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go l.readLoop()
	return l
}

// Send writes one message and waits for the device to acknowledge it
func (l *HostLink) Send(msgID uint32, args func(output OutputBuffer), timeout time.Duration) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	out := NewScratchOutput()
	ok := EncodeFrame(out, l.seq, func(output OutputBuffer) {
		EncodeVLQUint(output, msgID)
		if args != nil {
			args(output)
		}
	})
	if !ok {
		return fmt.Errorf("message %d exceeds %d bytes", msgID, MessageLengthMax)
	}

	if _, err := l.port.Write(out.Result()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	want := NextSequence(l.seq)
	deadline := time.After(timeout)
	for {
		select {
		case ack := <-l.acks:
			if ack == want {
				l.seq = want
				return nil
			}
			// stale ACK from a previous exchange, or a NAK
		case <-deadline:
			return fmt.Errorf("ACK timeout after %v", timeout)
		case <-l.stop:
			return ErrLinkClosed
		}
	}
}

// Request sends a message and waits for a response with id want.
// Responses left over from an earlier request that timed out are dropped
// first so they cannot answer this one.
func (l *HostLink) Request(msgID uint32, args func(output OutputBuffer), want uint32, timeout time.Duration) (Message, error) {
	l.requestMu.Lock()
	defer l.requestMu.Unlock()

	l.discardResponses()
	if err := l.Send(msgID, args, timeout); err != nil {
		return Message{}, err
	}
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-l.responses:
			if msg.ID == want || msg.ID == MsgError {
				return msg, nil
			}
		case <-deadline:
			return Message{}, fmt.Errorf("response timeout after %v", timeout)
		case <-l.stop:
			return Message{}, ErrLinkClosed
		}
	}
}

func (l *HostLink) discardResponses() {
	for {
		select {
		case <-l.responses:
		default:
			return
		}
	}
}

// Responses returns the channel of unsolicited device messages
func (l *HostLink) Responses() <-chan Message {
	return l.responses
}

func (l *HostLink) readLoop() {
	defer close(l.done)

	buf := make([]byte, 256)
	for {
		select {
		case <-l.stop:
			return
		default:
		}

		n, err := l.port.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if n == 0 {
			continue
		}

		l.input.Write(buf[:n])
		consumed := l.scan.scan(l.input.Data(), l.handleFrame, nil)
		l.input.Pop(consumed)
	}
}

func (l *HostLink) handleFrame(f Frame) {
	if len(f.Payload) == 0 {
		select {
		case l.acks <- f.Sequence:
		default:
		}
		return
	}

	// The device sends one message per frame; its arguments run to the
	// end of the payload.
	payload := f.Payload
	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return
	}
	args := make([]byte, len(payload))
	copy(args, payload)

	msg := Message{Sequence: f.Sequence, ID: id, Args: args}
	select {
	case l.responses <- msg:
	default:
		// full: drop the oldest so the newest status survives
		select {
		case <-l.responses:
		default:
		}
		l.responses <- msg
	}
}

// Close stops the reader and closes the port
func (l *HostLink) Close() error {
	var err error
	l.once.Do(func() {
		close(l.stop)
		err = l.port.Close()
		<-l.done
	})
	return err
}
