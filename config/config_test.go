package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const testYaml = `
gains:
  baseSpeed: 100
  turnSpeed: 80
motors:
  left:
    dirPin: 3
    pwmPin: 2
    forwardSinks: false
serial:
  device: /dev/ttyUSB1
watchdog:
  commandTimeoutMs: 250
`

func TestDefaults(t *testing.T) {
	Convey("the default config matches the reference robot", t, func() {
		cfg := Default()
		So(cfg.Validate(), ShouldBeNil)

		gains := cfg.MixerGains()
		So(gains.BaseSpeed, ShouldEqual, 120)
		So(gains.TurnSpeed, ShouldEqual, 102)
		So(gains.TankTurnMagnitude, ShouldEqual, 92)

		motors := cfg.MotorConfig()
		So(motors.Left.ForwardRequiresSink, ShouldBeTrue)
		So(motors.Right.ForwardRequiresSink, ShouldBeTrue)
		So(cfg.PWMPeriod(), ShouldEqual, 500*time.Microsecond)
	})
}

func TestParse(t *testing.T) {
	Convey("parsing is successful", t, func() {
		cfg, err := Parse([]byte(testYaml))
		So(err, ShouldBeNil)

		Convey("given values override the defaults", func() {
			So(cfg.Gains.BaseSpeed, ShouldEqual, 100)
			So(cfg.Gains.TurnSpeed, ShouldEqual, 80)
			So(cfg.Motors.Left.DirPin, ShouldEqual, 3)
			So(cfg.Motors.Left.ForwardSinks, ShouldBeFalse)
			So(cfg.Serial.Device, ShouldEqual, "/dev/ttyUSB1")
			So(cfg.DriveConfig().CommandTimeout, ShouldEqual, 250*time.Millisecond)
		})

		Convey("missing values keep the defaults", func() {
			So(cfg.Gains.TankTurn, ShouldEqual, 92)
			So(cfg.Motors.Right.DirPin, ShouldEqual, 17)
			So(cfg.Serial.Baud, ShouldEqual, 115200)
			So(cfg.ReadTimeout(), ShouldEqual, 100*time.Millisecond)
		})
	})

	Convey("malformed yaml is rejected", t, func() {
		_, err := Parse([]byte("gains: [1, 2"))
		So(err, ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	Convey("validation", t, func() {
		cfg := Default()

		Convey("rejects gains beyond the wheel range", func() {
			cfg.Gains.BaseSpeed = 300
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("rejects shared pins", func() {
			cfg.Motors.Right.DirPin = cfg.Motors.Left.DirPin
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("rejects a watchdog timeout above one minute", func() {
			cfg.Watchdog.CommandTimeoutMs = MaxCommandTimeoutMs + 1
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("accepts a watchdog timeout of exactly one minute", func() {
			cfg.Watchdog.CommandTimeoutMs = MaxCommandTimeoutMs
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("rejects a zero baud rate", func() {
			cfg.Serial.Baud = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("loading from a file with env overrides", t, func() {
		dir, err := os.MkdirTemp("", "picodrive")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "robot.yaml")
		So(os.WriteFile(path, []byte(testYaml), 0644), ShouldBeNil)

		os.Setenv("PICODRIVE_SERIAL_DEVICE", "/dev/ttyACM3")
		os.Setenv("PICODRIVE_SERIAL_BAUD", "230400")
		defer os.Unsetenv("PICODRIVE_SERIAL_DEVICE")
		defer os.Unsetenv("PICODRIVE_SERIAL_BAUD")

		cfg, err := Load(path)
		So(err, ShouldBeNil)
		So(cfg.Serial.Device, ShouldEqual, "/dev/ttyACM3")
		So(cfg.Serial.Baud, ShouldEqual, 230400)
		So(cfg.Gains.BaseSpeed, ShouldEqual, 100)
	})

	Convey("a malformed baud override is an error", t, func() {
		os.Setenv("PICODRIVE_SERIAL_BAUD", "fast")
		defer os.Unsetenv("PICODRIVE_SERIAL_BAUD")

		_, err := Load("")
		So(err, ShouldNotBeNil)
	})

	Convey("an empty path gives the defaults", t, func() {
		cfg, err := Load("")
		So(err, ShouldBeNil)
		So(cfg.Gains.BaseSpeed, ShouldEqual, 120)
	})

	Convey("a missing file is an error", t, func() {
		_, err := Load("/nonexistent/robot.yaml")
		So(err, ShouldNotBeNil)
	})
}
