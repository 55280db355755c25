package utils

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel("info")
	})

	require.NoError(t, SetLevel("warn"))
	Info("hidden %d", 1)
	Warn("shown %d", 2)
	require.NotContains(t, buf.String(), "hidden 1")
	require.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	require.NoError(t, SetLevel("debug"))
	Debug("page %d", 3)
	Success("saved %d rows", 4)
	require.Contains(t, buf.String(), "page 3")
	require.Contains(t, buf.String(), "saved 4 rows")
	require.Contains(t, buf.String(), "status=ok")
}

func TestHoldDelaysLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	release := Hold()
	Info("first")
	Warn("second")
	require.Empty(t, buf.String())

	release()
	out := buf.String()
	require.Contains(t, out, "first")
	require.Contains(t, out, "second")
	require.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))

	Info("third")
	require.Contains(t, buf.String(), "third")
}

func TestSetLevelInvalid(t *testing.T) {
	require.Error(t, SetLevel("loud"))
}
