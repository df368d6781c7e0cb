package driver

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// usbPatterns are name fragments that usually indicate a USB serial adapter
var usbPatterns = []string{"ttyUSB", "ttyACM", "usbmodem", "usbserial", "COM"}

// skipPatterns are ports that are never the device console
var skipPatterns = []string{"Bluetooth", "debug-console"}

// DetectPort enumerates system serial ports and returns the most likely
// console device: USB-style names first, otherwise the first usable port.
func DetectPort() (string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("failed to list serial ports: %v", err)
	}

	candidates := make([]string, 0, len(ports))
	for _, name := range ports {
		if matchesAny(name, skipPatterns) {
			continue
		}
		candidates = append(candidates, name)
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no serial ports found")
	}

	for _, name := range candidates {
		if matchesAny(name, usbPatterns) {
			return name, nil
		}
	}
	return candidates[0], nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
