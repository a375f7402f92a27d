package core

import "errors"

// ErrChannelUnavailable is returned by a ChannelRecorder with Fail set
var ErrChannelUnavailable = errors.New("channel output unavailable")

// ChannelState is one recorded output update
type ChannelState struct {
	Sink bool
	Duty uint8
}

// ChannelRecorder is an in-memory ChannelOutput.
// It records every update and can be made to fail, for motor and controller tests.
type ChannelRecorder struct {
	Sink bool
	Duty uint8

	// Writes counts SetDirection and SetDutyLevel calls
	Writes int

	// Fail makes every subsequent call return ErrChannelUnavailable
	Fail bool

	history []ChannelState
}

// NewChannelRecorder returns a recorder with the direction released and duty 0
func NewChannelRecorder() *ChannelRecorder {
	return &ChannelRecorder{}
}

func (r *ChannelRecorder) SetDirection(sink bool) error {
	if r.Fail {
		return ErrChannelUnavailable
	}
	r.Sink = sink
	r.Writes++
	return nil
}

func (r *ChannelRecorder) SetDutyLevel(level uint8) error {
	if r.Fail {
		return ErrChannelUnavailable
	}
	r.Duty = level
	r.Writes++
	r.history = append(r.history, ChannelState{Sink: r.Sink, Duty: r.Duty})
	return nil
}

// History returns the state after each duty update, oldest first
func (r *ChannelRecorder) History() []ChannelState {
	return r.history
}
