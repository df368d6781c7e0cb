package console

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"serial-console/driver"
)

func testConfig(out *bytes.Buffer, d time.Duration) Config {
	return Config{
		Device:   "mock",
		Duration: d,
		Settle:   time.Millisecond,
		Poll:     time.Millisecond,
		Out:      out,
	}
}

func TestRunLine_PrintsTrimmedLines(t *testing.T) {
	mock := driver.NewMockPort()
	t.Cleanup(func() { mock.Close() })

	// CRLF endings, a blank line, and a trailing fragment without a newline
	mock.Feed([]byte("boot ok\r\nvoltage 3.3\n   \r\npartial"))

	out := new(bytes.Buffer)
	sess := NewSession(mock, testConfig(out, 50*time.Millisecond))
	require.NoError(t, sess.RunLine())

	require.Equal(t, "boot ok\nvoltage 3.3\n", out.String())
	require.Equal(t, 2, sess.LineCount())
}

func TestRunLine_PreservesArrivalOrder(t *testing.T) {
	mock := driver.NewMockPort()
	t.Cleanup(func() { mock.Close() })

	mock.Feed([]byte("first\n"))
	mock.FeedAfter(10*time.Millisecond, []byte("second\n"))
	mock.FeedAfter(20*time.Millisecond, []byte("third\n"))

	out := new(bytes.Buffer)
	sess := NewSession(mock, testConfig(out, 60*time.Millisecond))
	require.NoError(t, sess.RunLine())

	require.Equal(t, "first\nsecond\nthird\n", out.String())
}

func TestRunLine_ReadErrorIsFatal(t *testing.T) {
	mock := driver.NewMockPort()
	t.Cleanup(func() { mock.Close() })

	mock.FailNextRead(errors.New("device unplugged"))

	out := new(bytes.Buffer)
	sess := NewSession(mock, testConfig(out, 100*time.Millisecond))

	err := sess.RunLine()
	require.Error(t, err)
	require.Contains(t, err.Error(), "device unplugged")
}

func TestRunChunk_ReplacesInvalidUTF8AndCountsNewlines(t *testing.T) {
	mock := driver.NewMockPort()
	t.Cleanup(func() { mock.Close() })

	stream := append([]byte("temp=21\n"), 0xFF, 0xFE)
	stream = append(stream, []byte("ok\n")...)
	mock.Feed(stream)

	out := new(bytes.Buffer)
	sess := NewSession(mock, testConfig(out, 50*time.Millisecond))
	require.NoError(t, sess.RunChunk())

	require.Contains(t, out.String(), "temp=21\n")
	require.Contains(t, out.String(), "�")
	require.Contains(t, out.String(), "Read complete. Got 2 lines.")
	require.Equal(t, 2, sess.LineCount())
}

func TestRunChunk_TransientReadErrorContinues(t *testing.T) {
	mock := driver.NewMockPort()
	t.Cleanup(func() { mock.Close() })

	mock.FailNextRead(errors.New("bus glitch"))
	mock.FeedAfter(10*time.Millisecond, []byte("still alive\n"))

	out := new(bytes.Buffer)
	sess := NewSession(mock, testConfig(out, 60*time.Millisecond))

	require.NoError(t, sess.RunChunk())
	require.Contains(t, out.String(), "still alive")
	require.Equal(t, 1, sess.LineCount())
}

func TestRunChunk_InterruptStopsWithinOnePoll(t *testing.T) {
	mock := driver.NewMockPort()
	t.Cleanup(func() { mock.Close() })
	mock.Feed([]byte("spinning\n"))

	interrupt := make(chan os.Signal, 1)

	out := new(bytes.Buffer)
	cfg := testConfig(out, 5*time.Second)
	cfg.Interrupt = interrupt
	sess := NewSession(mock, cfg)

	done := make(chan error, 1)
	go func() { done <- sess.RunChunk() }()

	// Let the loop get past settle and start polling
	time.Sleep(20 * time.Millisecond)
	interrupt <- os.Interrupt

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrInterrupted)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for interrupt to stop the session")
	}
}

func TestSessionNeverExceedsDuration(t *testing.T) {
	for _, mode := range []string{"line", "chunk"} {
		t.Run(mode, func(t *testing.T) {
			mock := driver.NewMockPort()
			t.Cleanup(func() { mock.Close() })

			// Keep data flowing so the loop never idles
			for i := 0; i < 20; i++ {
				mock.FeedAfter(time.Duration(i)*5*time.Millisecond, []byte("tick\n"))
			}

			out := new(bytes.Buffer)
			sess := NewSession(mock, testConfig(out, 50*time.Millisecond))

			start := time.Now()
			var err error
			if mode == "line" {
				err = sess.RunLine()
			} else {
				err = sess.RunChunk()
			}
			require.NoError(t, err)

			// Duration plus one poll/read timeout of slack, generously
			require.Less(t, time.Since(start), 300*time.Millisecond)
		})
	}
}

func TestSessionLifecycleStates(t *testing.T) {
	mock := driver.NewMockPort()
	t.Cleanup(func() { mock.Close() })
	mock.Feed([]byte("hello\n"))

	var states []string
	out := new(bytes.Buffer)
	cfg := testConfig(out, 30*time.Millisecond)
	cfg.OnStatus = func(info StatusInfo) {
		states = append(states, info.State)
	}

	sess := NewSession(mock, cfg)
	require.NoError(t, sess.RunChunk())

	require.Equal(t, []string{"OPEN", "READING", "CLOSED"}, states)
	require.Equal(t, "CLOSED", sess.Status().State)
}
