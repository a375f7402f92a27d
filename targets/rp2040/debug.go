//go:build rp2040

package main

import (
	"machine"

	"picodrive/core"
)

// DebugUART turns on debug output on UART0 (TX=GPIO0, RX=GPIO1) at 115200 baud.
// Set with -ldflags "-X main.DebugUART=on".
var DebugUART string

// initDebug routes core debug output to UART0 when enabled at build time
func initDebug() {
	if DebugUART != "on" {
		return
	}

	uart := machine.UART0
	err := uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	if err != nil {
		return
	}

	core.SetDebugWriter(func(s string) {
		uart.Write([]byte(s))
		uart.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	core.DebugPrintln("picodrive " + protocolVersion())
}
