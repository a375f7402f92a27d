package core

import (
	"fmt"
	"time"
)

// ChannelOutput is the hardware capability one motor channel needs:
// a binary direction line and an 8-bit duty output.
type ChannelOutput interface {
	// SetDirection asserts (true) or releases (false) the direction sink
	SetDirection(sink bool) error

	// SetDutyLevel sets the raw duty level, 0 to PWM_MAX
	SetDutyLevel(level uint8) error
}

// PinChannel drives a motor channel through the GPIO and PWM HAL.
// The direction pin switches a transistor that sinks the driver's F/R line.
type PinChannel struct {
	DirPin  GPIOPin
	DutyPin PWMPin

	gpio GPIODriver
	pwm  PWMDriver
}

// NewPinChannel creates a channel bound to one direction pin and one PWM pin
func NewPinChannel(gpio GPIODriver, pwm PWMDriver, dir GPIOPin, duty PWMPin) *PinChannel {
	return &PinChannel{
		DirPin:  dir,
		DutyPin: duty,
		gpio:    gpio,
		pwm:     pwm,
	}
}

// NewHALChannel creates a channel on the registered GPIO and PWM drivers.
// Panics if either driver is missing.
func NewHALChannel(dir GPIOPin, duty PWMPin) *PinChannel {
	return NewPinChannel(MustGPIO(), MustPWM(), dir, duty)
}

// Configure sets up both pins. The direction pin starts released.
func (c *PinChannel) Configure(period time.Duration) error {
	if err := c.gpio.ConfigureOutput(c.DirPin); err != nil {
		return fmt.Errorf("configure direction pin %d: %w", c.DirPin, err)
	}
	if err := c.gpio.SetPin(c.DirPin, false); err != nil {
		return fmt.Errorf("release direction pin %d: %w", c.DirPin, err)
	}
	if err := c.pwm.ConfigureHardwarePWM(c.DutyPin, period); err != nil {
		return fmt.Errorf("configure pwm pin %d: %w", c.DutyPin, err)
	}
	return nil
}

// SetDirection drives the direction pin high to sink
func (c *PinChannel) SetDirection(sink bool) error {
	return c.gpio.SetPin(c.DirPin, sink)
}

// SetDutyLevel scales the 8-bit level to the driver's range
func (c *PinChannel) SetDutyLevel(level uint8) error {
	top := c.pwm.GetMaxValue()
	value := PWMValue(uint32(level) * top / PWM_MAX)
	return c.pwm.SetDutyCycle(c.DutyPin, value)
}
