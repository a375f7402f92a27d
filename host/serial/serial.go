package serial

import (
	"io"
	"time"

	"picodrive/protocol"
)

// Port represents a serial port interface
// Native ports use github.com/tarm/serial; tests use in-memory fakes.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Timeout of a single port read. Byte reads loop on it until their own timeout,
	// so it bounds how far a read can overrun its deadline. On POSIX the port rounds
	// it to whole deciseconds, at least 100ms.
	PollTimeout time.Duration
}

// DefaultConfig returns the configuration for the controller's USB-CDC link
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		PollTimeout: 100 * time.Millisecond,
	}
}

// Stream adapts a Port to a protocol.Stream.
// The port must return (0, nil) or io.EOF when nothing arrived within its own poll timeout.
type Stream struct {
	port  Port
	clock protocol.Clock
	buf   [1]byte
}

// NewStream wraps a port. A nil clock uses the system clock.
func NewStream(port Port, clock protocol.Clock) *Stream {
	if clock == nil {
		clock = protocol.SystemClock{}
	}
	return &Stream{port: port, clock: clock}
}

// Write writes to the port
func (s *Stream) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// ReadByteTimeout reads one byte, polling the port until timeout has passed
func (s *Stream) ReadByteTimeout(timeout time.Duration) (byte, error) {
	deadline := s.clock.Now().Add(timeout)

	for {
		n, err := s.port.Read(s.buf[:])
		if n == 1 {
			return s.buf[0], nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !s.clock.Now().Before(deadline) {
			return 0, protocol.ErrTimeout
		}
	}
}
