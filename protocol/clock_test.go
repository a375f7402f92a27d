package protocol

import (
	"sync"
	"time"
)

// fakeClock only moves when slept on
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps++
}

// scriptedStream yields its data with a fixed delay per byte, then stalls.
// A write is rejected once rejectAt bytes went through.
type scriptedStream struct {
	clock    *fakeClock
	data     []byte
	delay    time.Duration
	reads    int
	rejectAt int
	written  []byte
	writeErr error
}

func (s *scriptedStream) ReadByteTimeout(timeout time.Duration) (byte, error) {
	s.reads++
	if len(s.data) == 0 || s.delay > timeout {
		s.clock.Sleep(timeout)
		return 0, ErrTimeout
	}
	s.clock.Sleep(s.delay)
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}

func (s *scriptedStream) Write(p []byte) (int, error) {
	if s.rejectAt >= 0 && len(s.written) >= s.rejectAt {
		return 0, s.writeErr
	}
	s.written = append(s.written, p...)
	return len(p), nil
}
