package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name     string
		log      func()
		expected string
	}{
		{"debug", func() { Debug("ingest %s", "q3.pdf") }, "[DEBUG] ingest q3.pdf\n"},
		{"info", func() { Info("%d results", 3) }, "[INFO] 3 results\n"},
		{"warn", func() { Warn("page %d unreadable", 2) }, "[WARN] page 2 unreadable\n"},
		{"section", func() { Section("Search") }, "\n=== Search ===\n"},
		{"error", func() { Error("listen: %s", "busy") }, "[ERROR] listen: busy\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)
	Error("server stopped: %v", "boom")
	assert.Equal(t, "[ERROR] server stopped: boom\n", buf.String())
}

func TestElapsed(t *testing.T) {
	buf := capture(t, true)

	Elapsed("ingestion", time.Now().Add(-1500*time.Millisecond))

	assert.True(t, strings.HasPrefix(buf.String(), "[DEBUG] ingestion took 1.5"), buf.String())
}

func TestElapsed_Silent(t *testing.T) {
	buf := capture(t, false)

	Elapsed("ingestion", time.Now())

	assert.Empty(t, buf.String())
}

func TestFormatVerbsInArguments(t *testing.T) {
	buf := capture(t, true)

	Info("query %q", "100%")

	assert.Equal(t, "[INFO] query \"100%\"\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, true)
	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Debug("message")
		}()
		go func(v bool) {
			defer wg.Done()
			SetVerbose(v)
		}(i%2 == 0)
	}
	wg.Wait()
}
