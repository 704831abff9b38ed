//go:build !windows && !plan9

package internal

import (
	"log/syslog"
	"syscall"
)

// SyslogSink forwards records to the local syslog daemon.
type SyslogSink struct {
	w *syslog.Writer
}

func NewSyslogSink(program string) (*SyslogSink, error) {
	w, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, program)
	if err != nil {
		return nil, err
	}
	return &SyslogSink{w: w}, nil
}

func (s *SyslogSink) Log(rec LogRecord) {
	msg := rec.Message
	if rec.Code != 0 {
		msg += " (" + syscall.Errno(rec.Code).Error() + ")"
	}
	switch rec.Level {
	case LogLevelError:
		_ = s.w.Err(msg)
	case LogLevelWarn:
		_ = s.w.Warning(msg)
	case LogLevelInfo:
		_ = s.w.Info(msg)
	default:
		_ = s.w.Debug(msg)
	}
}

func (s *SyslogSink) Close() error {
	return s.w.Close()
}
