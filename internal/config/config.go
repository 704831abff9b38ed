package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"chemgps/domain/result"
	"chemgps/internal/errors"
	"chemgps/internal/format"
)

// Config represents the complete application configuration
type Config struct {
	Session SessionConfig `validate:"required"`
	Data    DataConfig
	Server  ServerConfig `validate:"required"`
}

// SessionConfig holds the prediction session settings
type SessionConfig struct {
	Program string `validate:"required"`
	Format  string `validate:"oneof=plain xml"`
	Verbose bool
	Debug   int `validate:"gte=0"`
	Batch   bool
	Syslog  bool
	Threads string
	License string
	LogFile string
	Results []string
}

// DataConfig selects where observation data comes from
type DataConfig struct {
	File        string
	DatabaseURL string
	Dataset     string `validate:"required"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port string `validate:"required,numeric"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Session: *loadSessionConfig(),
		Data:    *loadDataConfig(),
		Server:  *loadServerConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		Program: getEnvOrDefault("CHEMGPS_PROGRAM", DefaultProgram),
		Format:  strings.ToLower(getEnvOrDefault("CHEMGPS_FORMAT", "plain")),
		Verbose: getEnvBoolOrDefault("CHEMGPS_VERBOSE", false),
		Debug:   getEnvIntOrDefault("CHEMGPS_DEBUG", 0),
		Batch:   getEnvBoolOrDefault("CHEMGPS_BATCH", false),
		Syslog:  getEnvBoolOrDefault("CHEMGPS_SYSLOG", false),
		Threads: getEnvOrDefault("CHEMGPS_THREADS", ""),
		License: getEnvOrDefault(LicenseEnv, ""),
		LogFile: getEnvOrDefault("CHEMGPS_LOGFILE", ""),
		Results: splitList(getEnvOrDefault("CHEMGPS_RESULTS", "all")),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:        getEnvOrDefault("CHEMGPS_DATA_FILE", ""),
		DatabaseURL: getEnvOrDefault("CHEMGPS_DATABASE_URL", ""),
		Dataset:     getEnvOrDefault("CHEMGPS_DATASET", DefaultDataset),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("CHEMGPS_PORT", DefaultPort),
	}
}

func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if _, err := ParseThreading(config.Session.Threads); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if _, err := result.ParseMask(config.Session.Results...); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

// Options converts the session settings into session options. The caller
// still has to attach a data source.
func (c *Config) Options() (*Options, error) {
	enc, err := format.ParseEncoding(c.Session.Format)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	threading, err := ParseThreading(c.Session.Threads)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	mask, err := result.ParseMask(c.Session.Results...)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	return &Options{
		Program:     c.Session.Program,
		UseSyslog:   c.Session.Syslog,
		Debug:       c.Session.Debug,
		Verbose:     c.Session.Verbose,
		Batch:       c.Session.Batch,
		Threading:   threading,
		LogFile:     c.Session.LogFile,
		License:     c.Session.License,
		Format:      enc,
		Results:     mask,
		CPUInfoPath: DefaultCPUInfoPath,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
