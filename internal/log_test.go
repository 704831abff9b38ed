package internal

import (
	"bytes"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []LogRecord
}

func (r *recordingSink) Log(rec LogRecord) { r.records = append(r.records, rec) }

func TestStreamSinkFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStreamSink(&buf, "chemgps", 1)

	sink.Log(LogRecord{Level: LogLevelError, Message: "failed load project"})
	sink.Log(LogRecord{Level: LogLevelWarn, Message: "skipped"})
	sink.Log(LogRecord{Level: LogLevelDebug, Message: "loaded", File: "session.go", Line: 10})
	sink.Log(LogRecord{Level: LogLevelInfo, Message: "plain"})
	sink.Log(LogRecord{Level: LogLevelError, Code: int(syscall.ENOENT), Message: "failed open"})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "chemgps: error: failed load project", lines[0])
	assert.Equal(t, "chemgps: warning: skipped", lines[1])
	assert.Equal(t, "debug: loaded", lines[2])
	assert.Equal(t, "plain", lines[3])
	assert.Equal(t, "chemgps: error: failed open ("+syscall.ENOENT.Error()+")", lines[4])
}

func TestStreamSinkLocationAtHighDebug(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStreamSink(&buf, "chemgps", 2)
	sink.Log(LogRecord{Level: LogLevelDebug, Message: "x", File: "a.go", Line: 3})
	assert.Equal(t, "debug: x\t(a.go:3): \n", buf.String())
}

func TestLoggerLevels(t *testing.T) {
	sink := &recordingSink{}

	quiet := NewLogger(sink, 0, true)
	quiet.Debug("hidden")
	quiet.Info("hidden in batch mode")
	quiet.Warn("shown %d", 1)
	require.Len(t, sink.records, 1)
	assert.Equal(t, LogLevelWarn, sink.records[0].Level)
	assert.Equal(t, "shown 1", sink.records[0].Message)
	assert.Equal(t, "log_test.go", sink.records[0].File)
	assert.NotZero(t, sink.records[0].Line)

	loud := NewLogger(sink, 1, false)
	loud.Debug("visible")
	loud.Info("visible")
	assert.Len(t, sink.records, 3)
	assert.True(t, loud.Debugging())
	assert.False(t, quiet.Debugging())
}

func TestLoggerErrnoCode(t *testing.T) {
	sink := &recordingSink{}
	logger := NewLogger(sink, 0, false)

	logger.Error("failed open %s: %v", "/proc/cpuinfo", fmt.Errorf("open: %w", syscall.EACCES))
	logger.Error("no errno here: %v", fmt.Errorf("plain"))

	require.Len(t, sink.records, 2)
	assert.Equal(t, int(syscall.EACCES), sink.records[0].Code)
	assert.Zero(t, sink.records[1].Code)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() { logger.Warn("nothing") })
}

func TestLogSinkFuncInBatchMode(t *testing.T) {
	var got []string
	sink := LogSinkFunc(func(rec LogRecord) {
		got = append(got, rec.Level.String()+": "+rec.Message)
	})
	log := NewLogger(sink, 0, true)

	log.Info("loaded %d models", 2)
	log.Warn("skipped %s", "tps")
	log.Debug("hidden")

	require.Len(t, got, 1)
	assert.Equal(t, "warning: skipped tps", got[0])
}
