package core

import "errors"

// ErrNotConfigured is wrapped when a motor channel has no output attached
var ErrNotConfigured = errors.New("motor channel not configured")

// ErrPolarityConflict is wrapped when Init is repeated with different wiring
var ErrPolarityConflict = errors.New("motor channel polarity conflicts with previous init")

// FatalError marks a failure the control loop must not continue from.
// Driving a motor channel with unknown state is unsafe, so callers halt
// instead of retrying.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Op + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a FatalError
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

func fatal(op string, err error) error {
	return &FatalError{Op: op, Err: err}
}
