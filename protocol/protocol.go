// Package protocol implements the byte transport between the controller and its host.
// It moves raw bytes with deadline semantics; framing belongs to the layer above.
package protocol

import (
	"errors"
	"time"
)

// Version represents the picodrive firmware version
const Version = "0.1.0"

// Transport defaults
const (
	DefaultReadTimeout  = 100 * time.Millisecond
	DefaultPollInterval = 50 * time.Microsecond
	FifoSize            = 256
)

// ErrTimeout is returned by a ByteReader when no byte arrived in time
var ErrTimeout = errors.New("read timeout")
