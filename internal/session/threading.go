package session

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"chemgps/domain/core"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/ports"
)

func applyThreading(engine ports.Engine, opts *config.Options, logger *internal.Logger) error {
	switch opts.Threading.Mode {
	case config.ThreadingUnset:
		return nil
	case config.ThreadingFixed:
		n := opts.Threading.Workers
		if err := engine.UseMultiThreading(true, n); err != nil {
			logger.Error("failed turn multithreading on (user defined: %d number of cpus)", n)
			return core.NewEngineError(core.ErrThreading, fmt.Sprintf("enable %d cpus", n), err)
		}
		logger.Debug("multithreading turned on (user defined: %d number of cpus)", n)
	case config.ThreadingOff:
		if err := engine.UseMultiThreading(false, 0); err != nil {
			logger.Error("failed turn multithreading off")
			return core.NewEngineError(core.ErrThreading, "disable", err)
		}
		logger.Debug("multithreading turned off")
	case config.ThreadingAuto:
		cpus, err := DetectCPUs(opts.CPUInfoPath)
		if err != nil {
			logger.Error("failed detect number of cpus: %v", err)
			return err
		}
		if err := engine.UseMultiThreading(true, cpus); err != nil {
			logger.Error("failed turn multithreading on (auto: %d number of cpus)", cpus)
			return core.NewEngineError(core.ErrThreading, fmt.Sprintf("enable %d cpus", cpus), err)
		}
		logger.Debug("multithreading turned on (auto: %d number of cpus)", cpus)
	case config.ThreadingDefault:
		if err := engine.UseMultiThreading(true, -1); err != nil {
			logger.Error("failed turn multithreading on (default number of cpus)")
			return core.NewEngineError(core.ErrThreading, "enable default cpus", err)
		}
		logger.Debug("multithreading turned on (default number of cpus)")
	default:
		return core.NewEngineError(core.ErrConfiguration, fmt.Sprintf("unknown threading mode %d", opts.Threading.Mode), nil)
	}
	return nil
}

// DetectCPUs counts the processor entries in a cpuinfo file.
func DetectCPUs(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrCPUDetect, err)
	}
	defer f.Close()

	cpus := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "processor\t:") {
			cpus++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrCPUDetect, err)
	}
	if cpus == 0 {
		return 0, fmt.Errorf("%w: no processor entries in %s", core.ErrCPUDetect, path)
	}
	return cpus, nil
}
