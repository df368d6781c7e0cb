package console

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"serial-console/driver"
	"serial-console/logger"
)

// Timing defaults, one set per read mode
const (
	LineSettle      = 1 * time.Second
	LineReadTimeout = 1 * time.Second

	ChunkSettle       = 500 * time.Millisecond
	ChunkReadTimeout  = 100 * time.Millisecond
	ChunkPollInterval = 10 * time.Millisecond
)

// ErrInterrupted reports that the user stopped a chunk-mode session
var ErrInterrupted = errors.New("stopped by user")

// Config carries the per-session knobs. Zero values fall back to the
// mode's defaults (Out to stdout, Settle/Poll to the constants above).
type Config struct {
	Device   string
	Duration time.Duration
	Settle   time.Duration
	Poll     time.Duration
	Out      io.Writer
	OnStatus StatusCallback

	// Interrupt overrides the signal source in chunk mode; nil means
	// subscribe to os.Interrupt for the duration of the run.
	Interrupt <-chan os.Signal
}

// Session owns one open port for one bounded read window.
// Lifecycle: Closed -> Open -> Reading -> Closed.
type Session struct {
	port driver.Port
	cfg  Config

	mu      sync.Mutex
	state   State
	mode    string
	started time.Time
	lines   int
	lastErr string
}

func NewSession(port driver.Port, cfg Config) *Session {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Session{port: port, cfg: cfg, state: StateClosed}
}

// RunLine reads newline-terminated output until the session window closes.
// Each complete line is trimmed and printed when non-empty; bytes that do
// not decode as UTF-8 are dropped. Any read error ends the session.
// Interrupts are not handled in this mode.
func (s *Session) RunLine() error {
	s.setMode("line")
	s.transition(StateOpen)
	s.settle(LineSettle)

	s.transition(StateReading)
	defer s.transition(StateClosed)

	buf := make([]byte, 4096)
	pending := ""
	deadline := time.Now().Add(s.cfg.Duration)

	for time.Now().Before(deadline) {
		n, err := s.port.Read(buf)
		if err != nil {
			s.noteError(err)
			return fmt.Errorf("read error: %v", err)
		}
		if n == 0 {
			continue
		}

		pending += string(buf[:n])
		for {
			idx := strings.IndexByte(pending, '\n')
			if idx < 0 {
				break
			}
			line := strings.TrimSpace(strings.ToValidUTF8(pending[:idx], ""))
			pending = pending[idx+1:]
			if line != "" {
				fmt.Fprintln(s.cfg.Out, line)
				s.addLines(1)
			}
		}
	}

	logger.Session("complete", s.cfg.Device, s.LineCount())
	return nil
}

// RunChunk polls for whatever bytes are available and prints them as they
// arrive, replacing invalid UTF-8 sequences and counting newline bytes for
// the final summary. Read errors on a single poll are dropped so a glitch
// does not end the session. An interrupt stops the loop within one poll.
func (s *Session) RunChunk() error {
	s.setMode("chunk")

	interrupt := s.cfg.Interrupt
	if interrupt == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		defer signal.Stop(ch)
		interrupt = ch
	}

	s.transition(StateOpen)
	s.settle(ChunkSettle)

	s.transition(StateReading)
	defer s.transition(StateClosed)

	poll := s.cfg.Poll
	if poll == 0 {
		poll = ChunkPollInterval
	}

	buf := make([]byte, 4096)
	deadline := time.Now().Add(s.cfg.Duration)

	for time.Now().Before(deadline) {
		n, err := s.port.Read(buf)
		if n > 0 {
			text := strings.ToValidUTF8(string(buf[:n]), "�")
			fmt.Fprint(s.cfg.Out, text)
			s.addLines(bytes.Count(buf[:n], []byte{'\n'}))
		}
		if err != nil {
			// Transient: skip this poll and keep going
			s.noteError(err)
		}

		select {
		case <-interrupt:
			logger.Session("interrupted", s.cfg.Device, s.LineCount())
			return ErrInterrupted
		case <-time.After(poll):
		}
	}

	fmt.Fprintf(s.cfg.Out, "\n\nRead complete. Got %d lines.\n", s.LineCount())
	logger.Session("complete", s.cfg.Device, s.LineCount())
	return nil
}

// LineCount returns the number of lines seen so far
func (s *Session) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

// Status returns the current status snapshot
func (s *Session) Status() StatusInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() StatusInfo {
	info := StatusInfo{
		State:     s.state.String(),
		Mode:      s.mode,
		Device:    s.cfg.Device,
		Lines:     s.lines,
		LastError: s.lastErr,
	}
	if s.state != StateClosed && !s.started.IsZero() {
		info.ElapsedMs = time.Since(s.started).Milliseconds()
	}
	return info
}

// settle waits for the connection to stabilize after opening
func (s *Session) settle(fallback time.Duration) {
	d := s.cfg.Settle
	if d == 0 {
		d = fallback
	}
	time.Sleep(d)
}

func (s *Session) transition(next State) {
	s.mu.Lock()
	s.state = next
	if next == StateOpen {
		s.started = time.Now()
	}
	cb := s.cfg.OnStatus
	info := s.statusLocked()
	s.mu.Unlock()

	if cb != nil {
		cb(info)
	}
}

func (s *Session) setMode(mode string) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

func (s *Session) addLines(n int) {
	s.mu.Lock()
	s.lines += n
	s.mu.Unlock()
}

func (s *Session) noteError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	logger.Debug("poll error on %s: %v", s.cfg.Device, err)
}
