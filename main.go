package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"serial-console/api"
	"serial-console/config"
	"serial-console/console"
	"serial-console/driver"
	"serial-console/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Load Config
	cfg := config.Load()

	// 2. Optional file logging
	if cfg.LogDir != "" {
		if err := logger.Init(cfg.LogDir); err != nil {
			fmt.Printf("Warning: file logging disabled: %v\n", err)
		} else {
			defer logger.Close()
		}
	}

	// 3. Resolve the device
	portName := cfg.Port
	if portName == "auto" {
		name, err := driver.DetectPort()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return fatalExitCode(cfg.Mode)
		}
		fmt.Printf("Auto-detected serial port: %s\n", name)
		portName = name
	}

	fmt.Printf("Opening %s at %d baud...\n", portName, cfg.BaudRate)
	if cfg.Mode == config.ModeChunk {
		fmt.Printf("Press Ctrl+C to stop\n\n")
	} else {
		fmt.Printf("Reading for %v...\n\n", cfg.Duration)
	}

	readTimeout := console.LineReadTimeout
	if cfg.Mode == config.ModeChunk {
		readTimeout = console.ChunkReadTimeout
	}

	// 4. Open the port
	port, err := driver.Open(portName, cfg.BaudRate, readTimeout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		logger.Error("open %s: %v", portName, err)
		return fatalExitCode(cfg.Mode)
	}
	defer port.Close()
	logger.Info("opened %s at %d baud (%s mode)", portName, cfg.BaudRate, cfg.Mode)

	// 5. Optional websocket mirror
	sessCfg := console.Config{
		Device:   portName,
		Duration: cfg.Duration,
		Out:      os.Stdout,
	}
	if cfg.WSAddr != "" {
		hub := api.NewHub()
		defer hub.Close()

		http.HandleFunc("/ws", hub.ServeWS)
		go func() {
			if err := http.ListenAndServe(cfg.WSAddr, nil); err != nil {
				logger.Error("websocket server: %v", err)
			}
		}()

		fmt.Printf("Mirroring console on ws://%s/ws\n", cfg.WSAddr)
		sessCfg.Out = io.MultiWriter(os.Stdout, hub)
		sessCfg.OnStatus = hub.Status
	}

	// 6. Run the session
	sess := console.NewSession(port, sessCfg)

	switch cfg.Mode {
	case config.ModeLine:
		if err := sess.RunLine(); err != nil {
			// Line mode reports the error but never signals failure
			// via the exit code.
			fmt.Printf("Error: %v\n", err)
			return 0
		}
		fmt.Printf("\nDone reading serial output.\n")
		return 0

	default:
		err := sess.RunChunk()
		switch {
		case err == nil:
			return 0
		case errors.Is(err, console.ErrInterrupted):
			fmt.Printf("\nStopped by user\n")
			return 0
		default:
			fmt.Printf("Error: %v\n", err)
			return 1
		}
	}
}

// fatalExitCode maps a fatal session error (open failure, no device) to the
// mode's exit policy: chunk mode fails loudly, line mode only prints.
func fatalExitCode(mode config.Mode) int {
	if mode == config.ModeChunk {
		return 1
	}
	return 0
}
