package config

// Version is reported in verbose XML output. Overridden at link time.
var Version = "0.7.0"

const (
	DefaultProgram     = "chemgps"
	DefaultCPUInfoPath = "/proc/cpuinfo"
	DefaultPort        = "8080"
	DefaultDataset     = "default"

	// LicenseEnv is consulted when no license path is set explicitly.
	LicenseEnv = "CHEMGPS_LICENSE"
)
