// Package session manages the lifetime of a loaded prediction project.
package session

import (
	"context"
	"os"
	"sync"

	"chemgps/domain/core"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/internal/format"
	"chemgps/ports"
)

// Session owns one loaded engine project. It is used by a single goroutine at
// a time; Close may be called any number of times.
type Session struct {
	ID      core.SessionID
	Options *config.Options
	Models  int
	Name    string

	project   ports.Project
	log       *internal.Logger
	closeOnce sync.Once
}

// Load applies option defaults, configures the engine and opens the project at
// path. A returned error means no session exists and nothing needs closing.
func Load(ctx context.Context, engine ports.Engine, path string, opts *config.Options) (*Session, error) {
	if opts == nil {
		return nil, core.NewEngineError(core.ErrConfiguration, "session options are not set", nil)
	}
	applyDefaults(opts)

	logger := internal.NewLogger(opts.Logger, opts.Debug, opts.Batch)
	if opts.DataSource == nil {
		logger.Error("data loader function is not set in library options")
		return nil, core.NewEngineError(core.ErrConfiguration, "data source is not set", nil)
	}

	if opts.License == "" {
		opts.License = os.Getenv(config.LicenseEnv)
		if opts.License == "" {
			logger.Debug("no %s environment variable defined", config.LicenseEnv)
		}
	}
	if opts.License != "" {
		if err := engine.SetLicensePath(opts.License); err != nil {
			logger.Error("failed set license path (%v)", err)
		}
		logger.Debug("license path set to %s", opts.License)
	}

	if opts.LogFile != "" {
		if err := engine.SetLogFile(opts.LogFile); err != nil {
			logger.Error("failed set engine logfile to %s (%v)", opts.LogFile, err)
		} else {
			logger.Debug("successful set engine logfile to %s", opts.LogFile)
		}
	}

	if err := applyThreading(engine, opts, logger); err != nil {
		return nil, err
	}

	project, err := engine.OpenProject(ctx, path)
	if err != nil {
		logger.Error("failed load project (%v)", err)
		return nil, core.NewEngineError(core.ErrProjectLoad, path, err)
	}
	logger.Debug("successful loaded project %s", path)

	s := &Session{
		ID:      core.NewSessionID(),
		Options: opts,
		project: project,
		log:     logger,
	}
	s.describe()

	if s.Models, err = project.NumModels(); err != nil {
		logger.Error("failed get number of models (%v)", err)
		s.Models = 0
	} else {
		logger.Debug("project contains %d number of models", s.Models)
	}
	return s, nil
}

func applyDefaults(opts *config.Options) {
	if opts.Program == "" {
		opts.Program = config.DefaultProgram
	}
	if opts.Logger == nil {
		opts.Logger = internal.NewDefaultSink(opts.Program, opts.UseSyslog, opts.Debug)
	}
	if opts.Format == 0 {
		opts.Format = format.Plain
	}
	if opts.CPUInfoPath == "" {
		opts.CPUInfoPath = config.DefaultCPUInfoPath
	}
}

// describe records the project name and logs project statistics in debug mode.
func (s *Session) describe() {
	name, err := s.project.Name()
	if err != nil {
		s.log.Error("failed get project name (%v)", err)
	} else {
		s.Name = name
		s.log.Debug("project name: %s", name)
	}
	if !s.log.Debugging() {
		return
	}
	if n, err := s.project.NumObservationIDs(); err != nil {
		s.log.Error("failed get number of observation ids in the project (%v)", err)
	} else {
		s.log.Debug("the project contains %d observation ids", n)
	}
	if n, err := s.project.NumVariableIDs(); err != nil {
		s.log.Error("failed get number of variable ids in the project (%v)", err)
	} else {
		s.log.Debug("the project contains %d variable ids", n)
	}
}

// Project returns the open project handle.
func (s *Session) Project() (ports.Project, error) {
	if s == nil || s.project == nil {
		return nil, core.ErrNoProject
	}
	return s.project, nil
}

// Logger returns the session's logger.
func (s *Session) Logger() *internal.Logger {
	if s == nil {
		return nil
	}
	return s.log
}

// Close releases the project handle. Failures are logged.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.project == nil {
			return
		}
		if err := s.project.Close(); err != nil {
			s.log.Error("failed remove project (%v)", err)
		} else {
			s.log.Debug("successful closed project")
		}
		s.project = nil
	})
}
