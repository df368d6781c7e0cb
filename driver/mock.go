package driver

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// MockPort simulates a serial device for tests and demo runs.
// Bytes queued with Feed become readable immediately; FeedAfter schedules
// them on a timer so tests can replay a device emitting over time.
type MockPort struct {
	mu       sync.Mutex
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	readErr  error
	closed   bool
	timers   []*time.Timer
}

var _ Port = (*MockPort)(nil)

func NewMockPort() *MockPort {
	return &MockPort{
		readBuf:  new(bytes.Buffer),
		writeBuf: new(bytes.Buffer),
	}
}

// Feed makes data readable on the next Read call.
func (m *MockPort) Feed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.Write(data)
}

// FeedAfter makes data readable once d has elapsed.
func (m *MockPort) FeedAfter(d time.Duration, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers = append(m.timers, time.AfterFunc(d, func() {
		m.Feed(data)
	}))
}

// FailNextRead makes the next Read return err once, then recover.
func (m *MockPort) FailNextRead(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

func (m *MockPort) Read(p []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.EOF
	}
	if m.readErr != nil {
		err = m.readErr
		m.readErr = nil
		return 0, err
	}
	if m.readBuf.Len() == 0 {
		// Same contract as a timed-out device read
		return 0, nil
	}
	return m.readBuf.Read(p)
}

func (m *MockPort) Write(p []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return m.writeBuf.Write(p)
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, t := range m.timers {
		t.Stop()
	}
	return nil
}

func (m *MockPort) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readBuf.Reset()
	return nil
}

// Written returns everything the reader side wrote to the device.
func (m *MockPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeBuf.Bytes()
}
