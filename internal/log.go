package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warning"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// LogRecord is one structured log message handed to a sink.
type LogRecord struct {
	Level   LogLevel
	Code    int // errno, 0 when not applicable
	File    string
	Line    int
	Message string
}

// LogSink is the logging capability injected through the session options.
type LogSink interface {
	Log(rec LogRecord)
}

// LogSinkFunc adapts a function to LogSink.
type LogSinkFunc func(rec LogRecord)

func (f LogSinkFunc) Log(rec LogRecord) { f(rec) }

// StreamSink writes records as "prog: error: message (strerror)".
type StreamSink struct {
	mu      sync.Mutex
	w       io.Writer
	program string
	debug   int
}

// NewStreamSink creates a sink writing to w. File and line are appended to
// debug records when debug > 1.
func NewStreamSink(w io.Writer, program string, debug int) *StreamSink {
	return &StreamSink{w: w, program: program, debug: debug}
}

func (s *StreamSink) Log(rec LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch rec.Level {
	case LogLevelError:
		fmt.Fprintf(s.w, "%s: error: ", s.program)
	case LogLevelDebug:
		fmt.Fprint(s.w, "debug: ")
	case LogLevelWarn:
		fmt.Fprintf(s.w, "%s: warning: ", s.program)
	}
	fmt.Fprint(s.w, rec.Message)
	if rec.Code != 0 {
		fmt.Fprintf(s.w, " (%s)", syscall.Errno(rec.Code).Error())
	}
	if rec.Level == LogLevelDebug && s.debug > 1 {
		fmt.Fprintf(s.w, "\t(%s:%d): ", rec.File, rec.Line)
	}
	fmt.Fprintln(s.w)
}

// NewDefaultSink returns the syslog sink when requested and available,
// otherwise a stream sink on stderr.
func NewDefaultSink(program string, useSyslog bool, debug int) LogSink {
	if useSyslog {
		sink, err := NewSyslogSink(program)
		if err == nil {
			return sink
		}
		fallback := NewStreamSink(os.Stderr, program, debug)
		fallback.Log(LogRecord{Level: LogLevelWarn, Message: fmt.Sprintf("syslog unavailable, logging to stderr: %v", err)})
		return fallback
	}
	return NewStreamSink(os.Stderr, program, debug)
}

// Logger provides leveled logging on top of a sink
type Logger struct {
	sink  LogSink
	debug int
	batch bool
}

// NewLogger creates a logger. Debug records are dropped unless debug > 0 and
// info records are dropped in batch mode.
func NewLogger(sink LogSink, debug int, batch bool) *Logger {
	return &Logger{sink: sink, debug: debug, batch: batch}
}

// Error logs error messages. A syscall.Errno found among the arguments is
// recorded as the record's code.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(LogLevelError, errnoOf(args), format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(LogLevelWarn, 0, format, args...)
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil || l.batch {
		return
	}
	l.emit(LogLevelInfo, 0, format, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil || l.debug <= 0 {
		return
	}
	l.emit(LogLevelDebug, 0, format, args...)
}

// Debugging reports whether debug output is enabled
func (l *Logger) Debugging() bool {
	return l != nil && l.debug > 0
}

func (l *Logger) emit(level LogLevel, code int, format string, args ...interface{}) {
	if l == nil || l.sink == nil {
		return
	}
	rec := LogRecord{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		rec.File = filepath.Base(file)
		rec.Line = line
	}
	l.sink.Log(rec)
}

func errnoOf(args []interface{}) int {
	for _, arg := range args {
		err, ok := arg.(error)
		if !ok {
			continue
		}
		var errno syscall.Errno
		if errors.As(err, &errno) {
			return int(errno)
		}
	}
	return 0
}
