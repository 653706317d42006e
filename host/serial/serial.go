package serial

import (
	"errors"
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Capture files replayed through OpenFile
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

var ErrNoDevice = errors.New("serial: no device given")

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate of the board's debug UART (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration matching the firmware UART
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200, // firmware debug link
		ReadTimeout: 100,    // 100ms read timeout
	}
}
