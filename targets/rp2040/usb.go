//go:build rp2040

package main

import (
	"machine"

	"picodrive/protocol"
)

// usbSink writes to the USB CDC port
type usbSink struct{}

func (usbSink) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}

// NewUSBStream returns the stdio byte stream. machine.Serial is USB CDC on the RP2040.
func NewUSBStream(clock protocol.Clock) protocol.Stream {
	return protocol.NewPollingStream(machine.Serial, usbSink{}, clock, protocol.DefaultPollInterval)
}

// InitUSB configures the USB CDC port. Runs once, as the session setup.
func InitUSB() error {
	return machine.Serial.Configure(machine.UARTConfig{})
}
