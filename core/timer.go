package core

import (
	"sync/atomic"
	"time"
)

// TimerFreq is the tick rate of the RP2040 microsecond timer
const TimerFreq = 1000000

// systemTicks is written by the main loop and read from timer handlers
var systemTicks uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// MaxTimerSpan is the longest interval timerBefore can order, half the tick range
const MaxTimerSpan = time.Duration(1<<31-1) * time.Microsecond

// TimerFromDuration converts a duration to timer ticks, saturating at MaxTimerSpan.
// Negative durations give 0.
func TimerFromDuration(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	if d > MaxTimerSpan {
		d = MaxTimerSpan
	}
	return TimerFromUS(uint32(d / time.Microsecond))
}

// timerBefore compares tick values across counter wraparound
func timerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
