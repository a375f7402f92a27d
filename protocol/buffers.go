package protocol

import (
	"io"
	"sync"
	"time"
)

// FifoBuffer is a circular buffer for serial I/O.
// One slot stays free, so it holds capacity-1 bytes.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			// Buffer full
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Buffered returns the number of bytes ready to read
func (f *FifoBuffer) Buffered() int {
	return f.Available()
}

// ReadByte reads one byte, io.EOF when empty
func (f *FifoBuffer) ReadByte() (byte, error) {
	if f.read == f.write {
		return 0, io.EOF
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, nil
}

// Loopback is an in-memory Stream: bytes written come back out of the read side.
// Used for host dry runs and tests.
type Loopback struct {
	mu     sync.Mutex
	fifo   *FifoBuffer
	reader *PollingReader

	// limit is the number of bytes still accepted; negative means unlimited
	limit int
}

// NewLoopback creates a loopback stream with room for capacity-1 bytes
func NewLoopback(capacity int, clock Clock) *Loopback {
	l := &Loopback{
		fifo:  NewFifoBuffer(capacity),
		limit: -1,
	}
	l.reader = NewPollingReader(lockedPoller{l}, clock, DefaultPollInterval)
	return l
}

// AcceptOnly makes the loopback reject writes after n more bytes
func (l *Loopback) AcceptOnly(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = n
}

// Write queues p for reading. Short writes report io.ErrShortWrite.
func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := p
	if l.limit >= 0 && len(data) > l.limit {
		data = data[:l.limit]
	}
	n := l.fifo.Write(data)
	if l.limit >= 0 {
		l.limit -= n
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// ReadByteTimeout reads the next queued byte, waiting up to timeout
func (l *Loopback) ReadByteTimeout(timeout time.Duration) (byte, error) {
	return l.reader.ReadByteTimeout(timeout)
}

// Available returns the number of queued bytes
func (l *Loopback) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fifo.Available()
}

// lockedPoller polls the loopback FIFO under its lock
type lockedPoller struct {
	l *Loopback
}

func (p lockedPoller) Buffered() int {
	return p.l.Available()
}

func (p lockedPoller) ReadByte() (byte, error) {
	p.l.mu.Lock()
	defer p.l.mu.Unlock()
	return p.l.fifo.ReadByte()
}
