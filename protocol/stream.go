package protocol

import (
	"io"
	"time"
)

// ByteReader reads a single byte, waiting at most timeout for it.
// Returns ErrTimeout when nothing arrived.
type ByteReader interface {
	ReadByteTimeout(timeout time.Duration) (byte, error)
}

// Stream is the byte stream a Session owns
type Stream interface {
	io.Writer
	ByteReader
}

// Poller is a non-blocking byte source, the shape of TinyGo's machine.Serial
type Poller interface {
	// Buffered returns the number of bytes ready to read
	Buffered() int

	// ReadByte reads one ready byte
	ReadByte() (byte, error)
}

// PollingReader turns a Poller into a ByteReader by polling until the timeout elapses
type PollingReader struct {
	src      Poller
	clock    Clock
	interval time.Duration
}

// NewPollingReader creates a reader polling src every interval. A nil clock uses the system clock.
func NewPollingReader(src Poller, clock Clock, interval time.Duration) *PollingReader {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &PollingReader{
		src:      src,
		clock:    clock,
		interval: interval,
	}
}

// ReadByteTimeout busy-waits for a byte until timeout elapses
func (r *PollingReader) ReadByteTimeout(timeout time.Duration) (byte, error) {
	deadline := r.clock.Now().Add(timeout)
	for {
		if r.src.Buffered() > 0 {
			return r.src.ReadByte()
		}

		remaining := deadline.Sub(r.clock.Now())
		if remaining <= 0 {
			return 0, ErrTimeout
		}
		if remaining > r.interval {
			remaining = r.interval
		}
		r.clock.Sleep(remaining)
	}
}

// PollingStream pairs a polled source with a writer
type PollingStream struct {
	*PollingReader
	io.Writer
}

// NewPollingStream creates a Stream from a non-blocking source and a sink
func NewPollingStream(src Poller, sink io.Writer, clock Clock, interval time.Duration) *PollingStream {
	return &PollingStream{
		PollingReader: NewPollingReader(src, clock, interval),
		Writer:        sink,
	}
}
