// Package serial opens the console port of a counter board.
package serial

import (
	"io"
	"time"
)

// Port is an open console connection. The protocol host link only needs
// io.ReadWriteCloser; Flush lets callers drop stale input after a reset.
type Port interface {
	io.ReadWriteCloser

	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate; USB CDC ignores it
	Baud int

	// ReadTimeout bounds each read so the link read loop can notice Close
	ReadTimeout time.Duration
}

// DefaultBaud is the console rate when the board is reached over a UART
// adapter rather than USB.
const DefaultBaud = 115200

// DefaultConfig returns the configuration used by gmctl
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}
