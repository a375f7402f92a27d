package main

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"picodrive/config"
	"picodrive/host/serial"
	"picodrive/protocol"
)

type probeCommand struct {
	Device   string        `short:"d" long:"device" description:"Serial device, overrides the config"`
	Payload  string        `short:"p" long:"payload" default:"ping" description:"Bytes to write"`
	Expect   int           `short:"n" long:"expect" default:"4" description:"Number of bytes to read back"`
	Timeout  time.Duration `short:"t" long:"timeout" description:"Read timeout, overrides the config"`
	Loopback bool          `long:"loopback" description:"Use an in-memory loopback instead of a serial device"`
	Accept   int           `long:"accept" default:"-1" description:"Loopback only: bytes the sink accepts before rejecting"`

	result protocol.Stats
}

// Execute runs the probe
func (c *probeCommand) Execute(args []string) error {
	cfg, err := loadRobotConfig()
	if err != nil {
		return err
	}
	return c.run(cfg)
}

func (c *probeCommand) run(cfg *config.Config) error {
	logger := log.WithField("system", "probe")

	if c.Expect < 0 {
		return errors.Errorf("invalid read length: %d", c.Expect)
	}

	timeout := cfg.ReadTimeout()
	if c.Timeout > 0 {
		timeout = c.Timeout
	}

	var stream protocol.Stream
	var setup func() error

	if c.Loopback {
		loop := protocol.NewLoopback(protocol.FifoSize, nil)
		loop.AcceptOnly(c.Accept)
		stream = loop
		logger.Info("Using in-memory loopback.")
	} else {
		device := cfg.Serial.Device
		if c.Device != "" {
			device = c.Device
		}

		serialCfg := serial.DefaultConfig(device)
		serialCfg.Baud = cfg.Serial.Baud

		var port serial.Port
		setup = func() error {
			p, err := serial.Open(serialCfg)
			if err != nil {
				return err
			}
			port = p
			return nil
		}
		stream = &lazyStream{port: &port}

		defer func() {
			if port == nil {
				return
			}
			if err := port.Close(); err != nil {
				logger.Errorf("Could not close %s: %v", device, err)
			} else {
				logger.Debugf("Closed %s.", device)
			}
		}()
	}

	session := protocol.NewSession(stream, nil, setup)
	if !session.Open() {
		return errors.Wrap(session.SetupErr(), "could not open session")
	}
	defer session.Close()

	written, ok := session.Write([]byte(c.Payload))
	logger.WithField("ok", ok).Infof("Wrote %d/%d bytes", written, len(c.Payload))

	buf := make([]byte, c.Expect)
	read, ok := session.Read(buf, timeout)
	logger.WithField("ok", ok).Infof("Read %d/%d bytes within %v: %q", read, len(buf), timeout, buf[:read])

	c.result = session.Stats()
	logger.Debugf("Session stats %+v", c.result)
	return nil
}

// lazyStream binds to the port opened by the session setup
type lazyStream struct {
	port   *serial.Port
	stream *serial.Stream
}

func (s *lazyStream) bind() *serial.Stream {
	if s.stream == nil {
		s.stream = serial.NewStream(*s.port, nil)
	}
	return s.stream
}

func (s *lazyStream) Write(p []byte) (int, error) {
	return s.bind().Write(p)
}

func (s *lazyStream) ReadByteTimeout(timeout time.Duration) (byte, error) {
	return s.bind().ReadByteTimeout(timeout)
}
