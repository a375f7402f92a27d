package protocol

import (
	"sync"
	"time"
)

// Stats holds cumulative transfer counters of a Session
type Stats struct {
	BytesRead    uint32
	BytesWritten uint32
	ReadTimeouts uint32
	WriteRejects uint32
	ClosedCalls  uint32 // transfers attempted while not open
}

// Session is the transport session over one byte stream.
// It owns the stream for the process lifetime: Closed -> Open -> Closed.
type Session struct {
	stream Stream
	clock  Clock

	// setup runs once on the first Open
	setup    func() error
	once     sync.Once
	setupErr error

	stateMutex  sync.Mutex
	opened      bool
	closedCalls uint32

	// The stream gets one reader and one writer at a time
	readMutex  sync.Mutex
	writeMutex sync.Mutex

	stats Stats
}

// NewSession creates a closed session. setup may be nil.
func NewSession(stream Stream, clock Clock, setup func() error) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Session{
		stream: stream,
		clock:  clock,
		setup:  setup,
	}
}

// Open opens the session. The one-time stream setup runs on the first call only;
// every call reports its outcome.
func (s *Session) Open() bool {
	s.once.Do(func() {
		if s.setup != nil {
			s.setupErr = s.setup()
		}
	})
	if s.setupErr != nil {
		return false
	}

	s.stateMutex.Lock()
	s.opened = true
	s.stateMutex.Unlock()
	return true
}

// Close closes the session. The link has nothing to tear down.
func (s *Session) Close() bool {
	s.stateMutex.Lock()
	s.opened = false
	s.stateMutex.Unlock()
	return true
}

// IsOpen reports whether the session is open
func (s *Session) IsOpen() bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	return s.opened
}

// SetupErr returns the error of the one-time setup, if any
func (s *Session) SetupErr() error {
	return s.setupErr
}

// Write writes buf one byte at a time and stops at the first byte the
// stream does not accept. Returns the count written and whether all of buf went out.
func (s *Session) Write(buf []byte) (int, bool) {
	if !s.IsOpen() {
		s.countClosed()
		return 0, false
	}

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	for i := range buf {
		n, err := s.stream.Write(buf[i : i+1])
		if err != nil || n != 1 {
			s.stats.BytesWritten += uint32(i)
			s.stats.WriteRejects++
			return i, false
		}
	}

	s.stats.BytesWritten += uint32(len(buf))
	return len(buf), true
}

// Read fills buf one byte at a time. All bytes share one deadline of now+timeout.
// Returns the count read and whether buf was filled before the deadline.
func (s *Session) Read(buf []byte, timeout time.Duration) (int, bool) {
	if !s.IsOpen() {
		s.countClosed()
		return 0, false
	}

	s.readMutex.Lock()
	defer s.readMutex.Unlock()

	deadline := s.clock.Now().Add(timeout)

	for i := range buf {
		remaining := deadline.Sub(s.clock.Now())
		if remaining < 0 {
			s.stats.BytesRead += uint32(i)
			s.stats.ReadTimeouts++
			return i, false
		}

		b, err := s.stream.ReadByteTimeout(remaining)
		if err != nil {
			s.stats.BytesRead += uint32(i)
			s.stats.ReadTimeouts++
			return i, false
		}
		buf[i] = b
	}

	s.stats.BytesRead += uint32(len(buf))
	return len(buf), true
}

// Stats returns a snapshot of the transfer counters
func (s *Session) Stats() Stats {
	s.readMutex.Lock()
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	defer s.readMutex.Unlock()

	stats := s.stats
	s.stateMutex.Lock()
	stats.ClosedCalls = s.closedCalls
	s.stateMutex.Unlock()
	return stats
}

func (s *Session) countClosed() {
	s.stateMutex.Lock()
	s.closedCalls++
	s.stateMutex.Unlock()
}
