//go:build !tinygo

package core

// State stands in for the interrupt state on regular Go
type State uintptr

// disableInterrupts is a no-op on regular Go; the host and tests run
// the scheduler from a single goroutine
func disableInterrupts() State {
	return 0
}

func restoreInterrupts(state State) {}
