// Package link carries measurement frames between the device and the host:
// serial and MQTT sinks for the transmitter, and a receiver decoding a frame
// stream back into measurements.
package link

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the firmware UART configuration.
const DefaultBaudRate = 2_000_000

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}
	return result, nil
}

// OpenSerial opens a serial port. The returned port is both the frame sink of
// a Transmitter and the frame source of a Receiver.
func OpenSerial(name string, baudRate int) (serial.Port, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	return port, nil
}
