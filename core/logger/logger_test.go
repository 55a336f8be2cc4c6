package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseGatesDebug(t *testing.T) {
	var buf bytes.Buffer
	SetWriterForAll(&buf)
	t.Cleanup(func() {
		SetWriterForAll(os.Stderr)
		SetVerbose(false)
	})

	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("shown %s", "info")
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown info")
	assert.Contains(t, buf.String(), "INFO")
	assert.False(t, IsVerbose())

	SetVerbose(true)
	Debug("visible %d", 2)
	assert.Contains(t, buf.String(), "visible 2")
	assert.True(t, IsVerbose())
}

func TestAddWriterForAllTees(t *testing.T) {
	var first, second bytes.Buffer
	SetWriterForAll(&first)
	AddWriterForAll(&second)
	t.Cleanup(func() { SetWriterForAll(os.Stderr) })

	Warn("disk almost full")
	assert.Contains(t, first.String(), "disk almost full")
	assert.Contains(t, second.String(), "WARN")
}

func TestGetLogFromLevel(t *testing.T) {
	var buf bytes.Buffer
	SetWriterForAll(&buf)
	t.Cleanup(func() { SetWriterForAll(os.Stderr) })

	GetLogFromLevel(ERROR)("boom: %v", "x")
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "boom: x")
	assert.Equal(t, "WARN", WARN.String())
}
