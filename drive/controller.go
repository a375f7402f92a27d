// Package drive turns velocity commands into motor output.
// It is the entry point the messaging runtime calls on every command.
package drive

import (
	"time"

	"picodrive/core"
)

// Motors is the part of core.MotorOutput the controller drives
type Motors interface {
	Apply(left, right core.WheelSignal) error
	Stop() error
}

// Config holds the controller settings
type Config struct {
	Gains core.MixerGains

	// CommandTimeout stops the motors when no command arrives in time.
	// Zero disables the watchdog.
	CommandTimeout time.Duration
}

// DefaultConfig returns the reference robot settings
func DefaultConfig() Config {
	return Config{
		Gains:          core.DefaultGains(),
		CommandTimeout: 500 * time.Millisecond,
	}
}

// Status is a snapshot of the controller counters
type Status struct {
	Commands      uint32
	WatchdogStops uint32
	Left, Right   core.WheelSignal
	LastErr       error
}

// Controller mixes commands and applies them to the motors
type Controller struct {
	motors Motors
	gains  core.MixerGains

	sched        *core.Scheduler
	watchdog     core.Timer
	timeoutTicks uint32

	status Status
}

// NewController creates a controller. The motors must already be initialized.
func NewController(motors Motors, cfg Config) *Controller {
	c := &Controller{
		motors:       motors,
		gains:        cfg.Gains,
		sched:        core.NewScheduler(),
		timeoutTicks: core.TimerFromDuration(cfg.CommandTimeout),
	}
	c.watchdog.Handler = c.watchdogEvent
	return c
}

// HandleCommand mixes cmd and applies it to both wheels
func (c *Controller) HandleCommand(cmd core.VelocityCommand) error {
	left, right := core.Mix(cmd, c.gains)

	if err := c.motors.Apply(left, right); err != nil {
		c.status.LastErr = err
		return err
	}

	c.status.Commands++
	c.status.Left, c.status.Right = left, right

	if c.timeoutTicks != 0 {
		c.watchdog.WakeTime = core.GetTime() + c.timeoutTicks
		c.sched.ScheduleTimer(&c.watchdog)
	}
	return nil
}

// HandleTwist is HandleCommand for a decoded twist's linear.x and angular.z
func (c *Controller) HandleTwist(linear, angular float32) error {
	return c.HandleCommand(core.VelocityCommand{Linear: linear, Angular: angular})
}

// Stop stops both motors and disarms the watchdog
func (c *Controller) Stop() error {
	c.sched.CancelTimer(&c.watchdog)
	if err := c.motors.Stop(); err != nil {
		c.status.LastErr = err
		return err
	}
	c.status.Left, c.status.Right = core.WheelSignal{Forward: true}, core.WheelSignal{Forward: true}
	return nil
}

// Poll runs due timers against the current system time.
// Call it from the main loop.
func (c *Controller) Poll() {
	c.sched.Dispatch(core.GetTime())
}

// Status returns the controller counters
func (c *Controller) Status() Status {
	return c.status
}

// watchdogEvent stops the motors when commands stopped arriving
func (c *Controller) watchdogEvent(t *core.Timer) uint8 {
	c.status.WatchdogStops++
	core.DebugPrintln("drive: command timeout, stopping motors")

	if err := c.motors.Stop(); err != nil {
		c.status.LastErr = err
	}
	c.status.Left, c.status.Right = core.WheelSignal{Forward: true}, core.WheelSignal{Forward: true}
	return core.SF_DONE
}
