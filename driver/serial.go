package driver

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
)

// SerialPort wraps go.bug.st/serial for physical devices
type SerialPort struct {
	serial.Port
	portName string
}

var _ Port = (*SerialPort)(nil)

// openSerialPort opens a physical serial port
func openSerialPort(portName string, baudRate int, readTimeout time.Duration) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	// A timed-out Read returns (0, nil) so the session can poll
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %v", err)
	}

	return &SerialPort{Port: port, portName: portName}, nil
}

func (p *SerialPort) GetPortName() string {
	return p.portName
}

// Open opens a port - either physical serial or TCP based on the address format
// TCP addresses should be in format: "tcp://host:port"
// Serial ports: "COM3", "/dev/ttyUSB0", etc.
func Open(portName string, baudRate int, readTimeout time.Duration) (Port, error) {
	if strings.HasPrefix(portName, "tcp://") {
		addr := strings.TrimPrefix(portName, "tcp://")
		return openTCP(addr, readTimeout)
	}
	return openSerialPort(portName, baudRate, readTimeout)
}
