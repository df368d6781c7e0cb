package driver

import (
	"fmt"
	"net"
	"time"
)

// TCPPort wraps a TCP connection as a Port interface
// Used for the mock device or serial-over-TCP adapters
type TCPPort struct {
	conn        net.Conn
	address     string
	readTimeout time.Duration
}

// Ensure TCPPort implements Port interface
var _ Port = (*TCPPort)(nil)

// openTCP opens a TCP connection to a network-attached device
func openTCP(address string, readTimeout time.Duration) (Port, error) {
	conn, err := net.DialTimeout("tcp", address, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", address, err)
	}

	return &TCPPort{conn: conn, address: address, readTimeout: readTimeout}, nil
}

func (t *TCPPort) Read(p []byte) (n int, err error) {
	// Set read deadline to prevent blocking forever
	t.conn.SetReadDeadline(time.Now().Add(t.readTimeout))
	n, err = t.conn.Read(p)

	// Convert timeout to nil error (no data within the window)
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return n, nil
	}
	return n, err
}

func (t *TCPPort) Write(p []byte) (n int, err error) {
	return t.conn.Write(p)
}

func (t *TCPPort) Close() error {
	return t.conn.Close()
}

func (t *TCPPort) ResetInputBuffer() error {
	// Drain any pending data
	buf := make([]byte, 1024)
	t.conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond))
	for {
		n, _ := t.conn.Read(buf)
		if n == 0 {
			break
		}
	}
	return nil
}

// GetAddress returns the TCP address for logging
func (t *TCPPort) GetAddress() string {
	return t.address
}
