package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpen_MissingDeviceFails(t *testing.T) {
	_, err := Open("/dev/does-not-exist-console-test", 115200, time.Second)
	require.Error(t, err)
}

func TestOpen_UnreachableTCPFails(t *testing.T) {
	// Nothing listens on the discard port on localhost
	_, err := Open("tcp://127.0.0.1:9", 115200, 100*time.Millisecond)
	require.Error(t, err)
}
