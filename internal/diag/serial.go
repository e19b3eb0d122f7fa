package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/iotbridge/gpio2mqtt/internal/configuration"
	"go.bug.st/serial.v1"
)

// NewLogWriter returns the writer the bridge logs to. With debugging
// enabled and a serial port configured, output is mirrored to the serial
// console at the configured baud rate, the way the firmware mirrored its
// debug output to the UART.
func NewLogWriter(config configuration.DebugConfiguration) (io.Writer, func(), error) {
	if !config.Enabled || config.SerialPort == "" {
		return os.Stdout, func() {}, nil
	}

	mode := &serial.Mode{
		BaudRate: config.SerialBaudRate,
	}

	port, err := serial.Open(config.SerialPort, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("opening serial console %v: %w", config.SerialPort, err)
	}

	return io.MultiWriter(os.Stdout, port), func() { port.Close() }, nil
}
