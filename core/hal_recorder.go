package core

import (
	"errors"
	"time"
)

var (
	errPinNotConfigured = errors.New("pin not configured")
	errPWMNotConfigured = errors.New("pwm pin not configured")
)

// GPIORecorder is an in-memory GPIODriver for host dry runs and tests
type GPIORecorder struct {
	pins       map[GPIOPin]bool
	configured map[GPIOPin]bool
}

// NewGPIORecorder creates a GPIO recorder with no pins configured
func NewGPIORecorder() *GPIORecorder {
	return &GPIORecorder{
		pins:       make(map[GPIOPin]bool),
		configured: make(map[GPIOPin]bool),
	}
}

func (g *GPIORecorder) ConfigureOutput(pin GPIOPin) error {
	g.configured[pin] = true
	g.pins[pin] = false
	return nil
}

func (g *GPIORecorder) SetPin(pin GPIOPin, value bool) error {
	if !g.configured[pin] {
		return errPinNotConfigured
	}
	g.pins[pin] = value
	return nil
}

func (g *GPIORecorder) GetPin(pin GPIOPin) (bool, error) {
	if !g.configured[pin] {
		return false, errPinNotConfigured
	}
	return g.pins[pin], nil
}

// PWMRecorder is an in-memory PWMDriver with a configurable top value
type PWMRecorder struct {
	top     uint32
	periods map[PWMPin]time.Duration
	values  map[PWMPin]PWMValue
}

// NewPWMRecorder creates a PWM recorder whose duty range is 0 to top
func NewPWMRecorder(top uint32) *PWMRecorder {
	return &PWMRecorder{
		top:     top,
		periods: make(map[PWMPin]time.Duration),
		values:  make(map[PWMPin]PWMValue),
	}
}

func (p *PWMRecorder) ConfigureHardwarePWM(pin PWMPin, period time.Duration) error {
	p.periods[pin] = period
	return nil
}

func (p *PWMRecorder) SetDutyCycle(pin PWMPin, value PWMValue) error {
	if _, ok := p.periods[pin]; !ok {
		return errPWMNotConfigured
	}
	p.values[pin] = value
	return nil
}

func (p *PWMRecorder) GetMaxValue() uint32 {
	return p.top
}

// Duty returns the last duty value set on pin
func (p *PWMRecorder) Duty(pin PWMPin) PWMValue {
	return p.values[pin]
}

// Period returns the period pin was configured with, zero if never configured
func (p *PWMRecorder) Period(pin PWMPin) time.Duration {
	return p.periods[pin]
}
