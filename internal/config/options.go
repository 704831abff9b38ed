package config

import (
	"fmt"
	"strconv"
	"strings"

	"chemgps/domain/core"
	"chemgps/domain/result"
	"chemgps/internal"
	"chemgps/internal/format"
	"chemgps/ports"
)

// OptionID identifies a settable session option.
type OptionID int

const (
	OptionFormat  OptionID = 1
	OptionSyslog  OptionID = 2
	OptionBatch   OptionID = 3
	OptionDebug   OptionID = 4
	OptionVerbose OptionID = 5
	OptionResult  OptionID = 6
	OptionPrefix  OptionID = 7
	OptionLicense OptionID = 12 // write-only
)

// ThreadingMode selects how the engine's worker pool is configured.
type ThreadingMode int

const (
	ThreadingUnset ThreadingMode = iota
	ThreadingOff
	ThreadingAuto
	ThreadingDefault
	ThreadingFixed
)

// Threading is the engine threading policy. Workers is only used by ThreadingFixed.
type Threading struct {
	Mode    ThreadingMode
	Workers int
}

func (t Threading) String() string {
	switch t.Mode {
	case ThreadingOff:
		return "off"
	case ThreadingAuto:
		return "auto"
	case ThreadingDefault:
		return "default"
	case ThreadingFixed:
		return strconv.Itoa(t.Workers)
	}
	return "unset"
}

// ParseThreading accepts off, auto, default, a positive worker count, or an
// empty string for unset.
func ParseThreading(s string) (Threading, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return Threading{Mode: ThreadingUnset}, nil
	case "off", "0":
		return Threading{Mode: ThreadingOff}, nil
	case "auto":
		return Threading{Mode: ThreadingAuto}, nil
	case "default":
		return Threading{Mode: ThreadingDefault}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return Threading{}, fmt.Errorf("invalid threading %q: want off, auto, default or a worker count", s)
	}
	return Threading{Mode: ThreadingFixed, Workers: n}, nil
}

// Options holds the per-session settings. The zero value is usable; missing
// values are defaulted when the session is loaded. Options are not safe for
// concurrent mutation.
type Options struct {
	Program     string
	UseSyslog   bool
	Debug       int
	Verbose     bool
	Batch       bool
	Threading   Threading
	LogFile     string
	License     string
	Format      format.Encoding
	Results     result.Mask
	CPUInfoPath string

	Logger     internal.LogSink
	DataSource ports.DataSource
}

// Set writes a single option. The value must have the option's Go type:
// format.Encoding for OptionFormat, bool for the flags, int for OptionDebug,
// result.Mask for OptionResult and string for OptionPrefix and OptionLicense.
func (o *Options) Set(id OptionID, value any) error {
	switch id {
	case OptionFormat:
		v, ok := value.(format.Encoding)
		if !ok {
			return wrongType(id, value)
		}
		if v != format.Plain && v != format.XML {
			return core.NewInvalidOptionError(int(id), fmt.Sprintf("unknown format %d", int(v)))
		}
		o.Format = v
	case OptionSyslog:
		v, ok := value.(bool)
		if !ok {
			return wrongType(id, value)
		}
		o.UseSyslog = v
	case OptionBatch:
		v, ok := value.(bool)
		if !ok {
			return wrongType(id, value)
		}
		o.Batch = v
	case OptionDebug:
		v, ok := value.(int)
		if !ok {
			return wrongType(id, value)
		}
		o.Debug = v
	case OptionVerbose:
		v, ok := value.(bool)
		if !ok {
			return wrongType(id, value)
		}
		o.Verbose = v
	case OptionResult:
		v, ok := value.(result.Mask)
		if !ok {
			return wrongType(id, value)
		}
		o.Results = v
	case OptionPrefix:
		v, ok := value.(string)
		if !ok {
			return wrongType(id, value)
		}
		o.Program = v
	case OptionLicense:
		v, ok := value.(string)
		if !ok {
			return wrongType(id, value)
		}
		o.License = v
	default:
		return core.NewInvalidOptionError(int(id), "unknown option")
	}
	return nil
}

// Get reads a single option. The license is write-only.
func (o *Options) Get(id OptionID) (any, error) {
	switch id {
	case OptionFormat:
		return o.Format, nil
	case OptionSyslog:
		return o.UseSyslog, nil
	case OptionBatch:
		return o.Batch, nil
	case OptionDebug:
		return o.Debug, nil
	case OptionVerbose:
		return o.Verbose, nil
	case OptionResult:
		return o.Results, nil
	case OptionPrefix:
		return o.Program, nil
	case OptionLicense:
		return nil, core.NewInvalidOptionError(int(id), "option is write-only")
	}
	return nil, core.NewInvalidOptionError(int(id), "unknown option")
}

func wrongType(id OptionID, value any) error {
	return core.NewInvalidOptionError(int(id), fmt.Sprintf("unexpected value type %T", value))
}
