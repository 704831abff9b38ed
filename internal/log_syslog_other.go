//go:build windows || plan9

package internal

import "errors"

// SyslogSink is not available on this platform.
type SyslogSink struct{}

func NewSyslogSink(program string) (*SyslogSink, error) {
	return nil, errors.New("syslog is not supported on this platform")
}

func (s *SyslogSink) Log(rec LogRecord) {}

func (s *SyslogSink) Close() error { return nil }
