// Package config loads the robot configuration used by the host tools
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"picodrive/core"
	"picodrive/drive"
)

// MaxCommandTimeoutMs bounds the watchdog. A robot silent for longer than this is lost anyway.
const MaxCommandTimeoutMs = 60000

// Config is the complete robot configuration
type Config struct {
	Gains    GainsConfig    `yaml:"gains"`
	Motors   MotorsConfig   `yaml:"motors"`
	Serial   SerialConfig   `yaml:"serial"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
}

// GainsConfig holds the mixer gains
type GainsConfig struct {
	BaseSpeed int `yaml:"baseSpeed"`
	TurnSpeed int `yaml:"turnSpeed"`
	TankTurn  int `yaml:"tankTurn"`
}

// MotorsConfig holds both channels and the PWM setup
type MotorsConfig struct {
	Left          ChannelConfig `yaml:"left"`
	Right         ChannelConfig `yaml:"right"`
	PWMPeriodUsec int           `yaml:"pwmPeriodUsec"`
}

// ChannelConfig describes one motor channel's wiring
type ChannelConfig struct {
	DirPin       uint32 `yaml:"dirPin"`
	PWMPin       uint32 `yaml:"pwmPin"`
	ForwardSinks bool   `yaml:"forwardSinks"`
}

// SerialConfig holds the host side serial link settings
type SerialConfig struct {
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"readTimeoutMs"`
}

// WatchdogConfig holds the command watchdog settings
type WatchdogConfig struct {
	CommandTimeoutMs int `yaml:"commandTimeoutMs"`
}

// Default returns the configuration of the reference robot
func Default() *Config {
	gains := core.DefaultGains()
	return &Config{
		Gains: GainsConfig{
			BaseSpeed: gains.BaseSpeed,
			TurnSpeed: gains.TurnSpeed,
			TankTurn:  gains.TankTurnMagnitude,
		},
		Motors: MotorsConfig{
			Left:          ChannelConfig{DirPin: 19, PWMPin: 18, ForwardSinks: true},
			Right:         ChannelConfig{DirPin: 17, PWMPin: 16, ForwardSinks: true},
			PWMPeriodUsec: int(core.DefaultPWMPeriod / time.Microsecond),
		},
		Serial: SerialConfig{
			Device:        "/dev/ttyACM0",
			Baud:          115200,
			ReadTimeoutMs: 100,
		},
		Watchdog: WatchdogConfig{
			CommandTimeoutMs: 500,
		},
	}
}

// Parse decodes YAML over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	return cfg, nil
}

// Load reads a YAML file, applies environment overrides and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read config %s", path)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, errors.Wrap(err, "could not apply environment overrides")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// envOverrides are the settings that differ per host rather than per robot
type envOverrides struct {
	Device string `env:"PICODRIVE_SERIAL_DEVICE"`
	Baud   int    `env:"PICODRIVE_SERIAL_BAUD"`
}

// applyEnvOverrides applies environment variable overrides. Unset variables keep the file values.
func applyEnvOverrides(cfg *Config) error {
	overrides := envOverrides{
		Device: cfg.Serial.Device,
		Baud:   cfg.Serial.Baud,
	}
	if err := env.Parse(&overrides); err != nil {
		return err
	}

	cfg.Serial.Device = overrides.Device
	cfg.Serial.Baud = overrides.Baud
	return nil
}

// Validate checks the configuration for values the hardware cannot take
func (c *Config) Validate() error {
	for name, g := range map[string]int{
		"baseSpeed": c.Gains.BaseSpeed,
		"turnSpeed": c.Gains.TurnSpeed,
		"tankTurn":  c.Gains.TankTurn,
	} {
		if g < 0 || g > core.WheelMax {
			return errors.Errorf("gain %s out of range: %d", name, g)
		}
	}

	if c.Motors.Left.DirPin == c.Motors.Right.DirPin ||
		c.Motors.Left.PWMPin == c.Motors.Right.PWMPin {
		return errors.New("left and right channels share a pin")
	}
	if c.Motors.PWMPeriodUsec <= 0 {
		return errors.Errorf("invalid pwm period: %d", c.Motors.PWMPeriodUsec)
	}
	if c.Serial.Baud <= 0 {
		return errors.Errorf("invalid baud rate: %d", c.Serial.Baud)
	}
	if c.Serial.ReadTimeoutMs < 0 || c.Watchdog.CommandTimeoutMs < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.Watchdog.CommandTimeoutMs > MaxCommandTimeoutMs {
		return errors.Errorf("command timeout %dms above the %dms limit",
			c.Watchdog.CommandTimeoutMs, MaxCommandTimeoutMs)
	}
	return nil
}

// MixerGains returns the gains as the mixer takes them
func (c *Config) MixerGains() core.MixerGains {
	return core.MixerGains{
		BaseSpeed:         c.Gains.BaseSpeed,
		TurnSpeed:         c.Gains.TurnSpeed,
		TankTurnMagnitude: c.Gains.TankTurn,
	}
}

// MotorConfig returns the channel polarity for core.MotorOutput
func (c *Config) MotorConfig() core.MotorConfig {
	return core.MotorConfig{
		Left:  core.MotorChannelConfig{ForwardRequiresSink: c.Motors.Left.ForwardSinks},
		Right: core.MotorChannelConfig{ForwardRequiresSink: c.Motors.Right.ForwardSinks},
	}
}

// DriveConfig returns the controller settings
func (c *Config) DriveConfig() drive.Config {
	return drive.Config{
		Gains:          c.MixerGains(),
		CommandTimeout: time.Duration(c.Watchdog.CommandTimeoutMs) * time.Millisecond,
	}
}

// ReadTimeout returns the serial read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Serial.ReadTimeoutMs) * time.Millisecond
}

// PWMPeriod returns the motor PWM period
func (c *Config) PWMPeriod() time.Duration {
	return time.Duration(c.Motors.PWMPeriodUsec) * time.Microsecond
}
