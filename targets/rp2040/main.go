//go:build rp2040

package main

import (
	"strconv"
	"time"

	"machine"

	"picodrive/core"
	"picodrive/drive"
	"picodrive/protocol"
)

// Reference robot wiring. Both WS55 drivers run forward with F/R sunk.
const (
	leftDirPin   = core.GPIOPin(19)
	leftPWMPin   = core.PWMPin(18)
	rightDirPin  = core.GPIOPin(17)
	rightPWMPin  = core.PWMPin(16)
	forwardSinks = true

	// Lets the drivers and the USB host settle before the link opens
	startupSettle = 3 * time.Second

	statsInterval = 5 * time.Second
)

// CommandSource consumes bytes received on the transport and feeds decoded
// drive commands to the controller. The messaging agent is linked in here;
// with none set, received bytes are dropped.
var CommandSource func(data []byte, controller *drive.Controller)

func main() {
	// Clear any watchdog state left over from before the reset
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	initDebug()

	core.SetGPIODriver(NewRPGPIODriver())
	core.SetPWMDriver(NewRP2040PWMDriver())

	motors, err := initMotors()
	if err != nil {
		// Outputs are in an unknown state. Stop here rather than drive them.
		core.DebugPrintln("init failed: " + err.Error())
		for {
			time.Sleep(time.Second)
		}
	}

	controller := drive.NewController(motors, drive.DefaultConfig())

	time.Sleep(startupSettle)

	clock := protocol.SystemClock{}
	session := protocol.NewSession(NewUSBStream(clock), clock, InitUSB)
	for !session.Open() {
		time.Sleep(time.Second)
	}

	run(session, controller)
}

// initMotors configures both channels and puts them in the safe idle state
func initMotors() (*core.MotorOutput, error) {
	left := core.NewHALChannel(leftDirPin, leftPWMPin)
	right := core.NewHALChannel(rightDirPin, rightPWMPin)

	for _, ch := range []*core.PinChannel{left, right} {
		if err := ch.Configure(core.DefaultPWMPeriod); err != nil {
			return nil, err
		}
	}

	motors := core.NewMotorOutput(left, right)
	err := motors.Init(core.MotorConfig{
		Left:  core.MotorChannelConfig{ForwardRequiresSink: forwardSinks},
		Right: core.MotorChannelConfig{ForwardRequiresSink: forwardSinks},
	})
	if err != nil {
		return nil, err
	}
	return motors, nil
}

// run is the main loop: keep the timer current, service the watchdog and
// hand received bytes to the command source
func run(session *protocol.Session, controller *drive.Controller) {
	buf := make([]byte, 64)
	lastStats := core.GetTime()
	statsTicks := core.TimerFromDuration(statsInterval)

	for {
		UpdateSystemTime()
		controller.Poll()

		// A short read is the normal case: the deadline bounds the loop period
		n, _ := session.Read(buf, time.Millisecond)
		if n > 0 && CommandSource != nil {
			CommandSource(buf[:n], controller)
		}

		if now := core.GetTime(); now-lastStats >= statsTicks {
			lastStats = now
			logStats(session.Stats(), controller.Status())
		}
	}
}

func logStats(s protocol.Stats, st drive.Status) {
	if !core.IsDebugEnabled() {
		return
	}
	core.DebugAsync("rx=" + strconv.FormatUint(uint64(s.BytesRead), 10) +
		" tx=" + strconv.FormatUint(uint64(s.BytesWritten), 10) +
		" timeouts=" + strconv.FormatUint(uint64(s.ReadTimeouts), 10) +
		" cmds=" + strconv.FormatUint(uint64(st.Commands), 10) +
		" wdstops=" + strconv.FormatUint(uint64(st.WatchdogStops), 10))
}

func protocolVersion() string {
	return "protocol " + protocol.Version
}
