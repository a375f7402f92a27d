//go:build rp2040

package main

import (
	"errors"
	"time"

	"machine"

	"picodrive/core"
)

var errPWMNotConfigured = errors.New("pwm pin not configured")

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// RP2040PWMDriver implements core.PWMDriver on the 8 hardware PWM slices
type RP2040PWMDriver struct {
	// slice number -> configured period
	slices map[uint8]time.Duration

	// pin number -> slice channel
	channels map[uint32]uint8
}

// NewRP2040PWMDriver creates a new RP2040 PWM driver
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		slices:   make(map[uint8]time.Duration),
		channels: make(map[uint32]uint8),
	}
}

// GetMaxValue returns the duty resolution core code works in
func (d *RP2040PWMDriver) GetMaxValue() uint32 {
	return core.PWM_MAX
}

// ConfigureHardwarePWM routes a pin to its slice and sets the slice period.
// Both pins of a slice share one period; the last call wins.
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, period time.Duration) error {
	pinNum := uint32(pin)
	sliceNum := sliceOf(pinNum)
	pwm := slicePeripheral(sliceNum)

	if existing, ok := d.slices[sliceNum]; !ok || existing != period {
		if err := pwm.Configure(machine.PWMConfig{Period: uint64(period.Nanoseconds())}); err != nil {
			return err
		}
		d.slices[sliceNum] = period
	}

	channel, err := pwm.Channel(machine.Pin(pinNum))
	if err != nil {
		return err
	}
	d.channels[pinNum] = channel
	return nil
}

// SetDutyCycle sets the duty of a configured pin, value 0 to PWM_MAX
func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	pinNum := uint32(pin)
	channel, ok := d.channels[pinNum]
	if !ok {
		return errPWMNotConfigured
	}

	pwm := slicePeripheral(sliceOf(pinNum))
	pwm.Set(channel, uint32(value)*pwm.Top()/core.PWM_MAX)
	return nil
}

// sliceOf maps a GPIO to its PWM slice: (N >> 1) mod 8
func sliceOf(pinNum uint32) uint8 {
	return uint8((pinNum >> 1) & 0x7)
}

func slicePeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	}
	return machine.PWM0
}
