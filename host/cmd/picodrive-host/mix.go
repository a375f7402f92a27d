package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"picodrive/config"
	"picodrive/core"
	"picodrive/drive"
)

type mixCommand struct {
	Linear  float32 `short:"l" long:"linear" description:"Linear component of the command"`
	Angular float32 `short:"a" long:"angular" description:"Angular component of the command"`

	out io.Writer
}

// Execute runs the mix dry run
func (c *mixCommand) Execute(args []string) error {
	cfg, err := loadRobotConfig()
	if err != nil {
		return err
	}
	return c.run(cfg)
}

func (c *mixCommand) run(cfg *config.Config) error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	logger := log.WithField("system", "mix")

	// The configured wiring runs through the HAL exactly as on the controller,
	// only against recording drivers
	gpio := core.NewGPIORecorder()
	pwm := core.NewPWMRecorder(core.PWM_MAX)
	core.SetGPIODriver(gpio)
	core.SetPWMDriver(pwm)

	channels := []struct {
		name string
		wire config.ChannelConfig
		pins *core.PinChannel
	}{
		{name: "left", wire: cfg.Motors.Left},
		{name: "right", wire: cfg.Motors.Right},
	}
	for i := range channels {
		ch := &channels[i]
		ch.pins = core.NewHALChannel(core.GPIOPin(ch.wire.DirPin), core.PWMPin(ch.wire.PWMPin))
		if err := ch.pins.Configure(cfg.PWMPeriod()); err != nil {
			return errors.Wrapf(err, "could not configure %s channel", ch.name)
		}
	}

	motors := core.NewMotorOutput(channels[0].pins, channels[1].pins)
	if err := motors.Init(cfg.MotorConfig()); err != nil {
		return errors.Wrap(err, "could not initialize motor output")
	}

	controller := drive.NewController(motors, cfg.DriveConfig())
	if err := controller.HandleTwist(c.Linear, c.Angular); err != nil {
		return errors.Wrap(err, "could not apply command")
	}

	status := controller.Status()
	logger.Debugf("Applied %d command(s), pwm period %v", status.Commands, cfg.PWMPeriod())

	for i, signal := range []core.WheelSignal{status.Left, status.Right} {
		ch := channels[i]
		sink, err := core.MustGPIO().GetPin(ch.pins.DirPin)
		if err != nil {
			return errors.Wrapf(err, "could not read %s direction pin", ch.name)
		}
		fmt.Fprintf(out, "%-5s magnitude=%3d forward=%-5t dir(gpio%d)=%-5t duty(gpio%d)=%3d\n",
			ch.name, signal.Magnitude, signal.Forward,
			ch.pins.DirPin, sink, ch.pins.DutyPin, pwm.Duty(ch.pins.DutyPin))
	}

	return controller.Stop()
}
