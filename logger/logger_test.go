package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_DisabledBeforeInit(t *testing.T) {
	// Must be silent no-ops, not panics or stderr noise
	Info("ignored %d", 1)
	Error("ignored")
	Debug("ignored")
	Session("ignored", "/dev/null", 0)
}

func TestLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(Close)

	Info("opened %s at %d baud", "/dev/ttyUSB0", 115200)
	Session("complete", "/dev/ttyUSB0", 42)

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)

	content := string(data)
	require.Contains(t, content, "[INFO] opened /dev/ttyUSB0 at 115200 baud")
	require.Contains(t, content, "[SESSION] complete device=/dev/ttyUSB0 lines=42")
}
