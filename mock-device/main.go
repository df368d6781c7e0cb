package main

import (
	"flag"
	"fmt"
	"net"
	"time"
)

// Boot banner modeled on a typical ESP32-S3 dev-board test firmware
var banner = []string{
	"",
	"=================================",
	"   DEV BOARD DIAGNOSTIC - TEST",
	"=================================",
	"Hello from your ESP32-S3!",
	"If you see this, your board is working!",
	"The LED should blink every second.",
	"=================================",
	"",
}

func main() {
	addr := flag.String("addr", ":9600", "TCP listen address")
	interval := flag.Duration("interval", 1*time.Second, "Delay between LED status lines")
	garble := flag.Bool("garble", true, "Inject an occasional invalid UTF-8 byte")
	flag.Parse()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Println("Failed to start mock device:", err)
		return
	}
	defer listener.Close()

	fmt.Println("=== Mock Serial Device ===")
	fmt.Printf("Listening on TCP %s\n", *addr)
	fmt.Printf("Connect with: serial-console -port tcp://localhost%s\n", *addr)
	fmt.Println("Waiting for connections...")

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Println("Accept error:", err)
			continue
		}
		fmt.Println("[MockDevice] Client connected:", conn.RemoteAddr())
		go handleConnection(conn, *interval, *garble)
	}
}

func handleConnection(conn net.Conn, interval time.Duration, garble bool) {
	defer conn.Close()

	for _, line := range banner {
		if _, err := fmt.Fprintf(conn, "%s\r\n", line); err != nil {
			fmt.Println("[MockDevice] Client disconnected")
			return
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	on := true
	count := 0
	for range ticker.C {
		line := "LED OFF"
		if on {
			line = "LED ON"
		}
		on = !on
		count++

		payload := []byte(line + "\r\n")
		if garble && count%7 == 0 {
			// A stray bus byte, exercises the reader's lossy decode path
			payload = append([]byte{0xFF}, payload...)
		}

		if _, err := conn.Write(payload); err != nil {
			fmt.Println("[MockDevice] Client disconnected")
			return
		}
	}
}
