package config

import (
	"flag"
	"os"
	"runtime"
	"time"
)

// Mode selects the session's polling policy.
type Mode string

const (
	ModeLine  Mode = "line"  // blocking bounded reads, print complete lines
	ModeChunk Mode = "chunk" // drain available bytes, print raw, count newlines
)

type Config struct {
	Port     string // Serial port name (e.g. COM3, /dev/ttyUSB0, tcp://host:port, auto)
	BaudRate int
	Mode     Mode
	Duration time.Duration
	WSAddr   string // WebSocket mirror address, empty = disabled
	LogDir   string // File log directory, empty = disabled
}

func Load() *Config {
	// Default port based on OS
	defaultPort := "/dev/ttyUSB0"
	if runtime.GOOS == "windows" {
		defaultPort = "COM3"
	}

	port := flag.String("port", defaultPort, "Serial port (e.g. COM3, /dev/ttyUSB0, tcp://host:port, or auto)")
	baud := flag.Int("baud", 115200, "Baud rate")
	mode := flag.String("mode", "chunk", "Read mode: line or chunk")
	duration := flag.Duration("duration", 15*time.Second, "How long to read before stopping")
	wsAddr := flag.String("ws", "", "WebSocket mirror address (e.g. :8989), empty to disable")
	logDir := flag.String("logdir", "", "Log file directory, empty to disable")
	flag.Parse()

	// Allow environment variable override
	if envPort := os.Getenv("CONSOLE_SERIAL_PORT"); envPort != "" {
		*port = envPort
	}

	m := Mode(*mode)
	if m != ModeLine && m != ModeChunk {
		m = ModeChunk
	}

	return &Config{
		Port:     *port,
		BaudRate: *baud,
		Mode:     m,
		Duration: *duration,
		WSAddr:   *wsAddr,
		LogDir:   *logDir,
	}
}
