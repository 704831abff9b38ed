package config

import (
	"testing"

	"chemgps/domain/result"
	"chemgps/internal/errors"
	"chemgps/internal/format"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CHEMGPS_PROGRAM", "CHEMGPS_FORMAT", "CHEMGPS_THREADS", "CHEMGPS_RESULTS", "CHEMGPS_PORT", LicenseEnv} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultProgram, cfg.Session.Program)
	assert.Equal(t, "plain", cfg.Session.Format)
	assert.Equal(t, []string{"all"}, cfg.Session.Results)
	assert.Equal(t, DefaultPort, cfg.Server.Port)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, format.Plain, opts.Format)
	assert.Equal(t, ThreadingUnset, opts.Threading.Mode)
	assert.Equal(t, DefaultCPUInfoPath, opts.CPUInfoPath)
	for _, k := range result.Kinds() {
		assert.True(t, opts.Results.IsSet(k), k.String())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CHEMGPS_FORMAT", "XML")
	t.Setenv("CHEMGPS_VERBOSE", "true")
	t.Setenv("CHEMGPS_DEBUG", "2")
	t.Setenv("CHEMGPS_THREADS", "auto")
	t.Setenv("CHEMGPS_RESULTS", "tps, dmodxps")
	t.Setenv(LicenseEnv, "/licenses/engine.lic")

	cfg, err := Load()
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, format.XML, opts.Format)
	assert.True(t, opts.Verbose)
	assert.Equal(t, 2, opts.Debug)
	assert.Equal(t, ThreadingAuto, opts.Threading.Mode)
	assert.Equal(t, result.MaskOf(result.TPS, result.DModXPS), opts.Results)
	assert.Equal(t, "/licenses/engine.lic", opts.License)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"CHEMGPS_FORMAT":  "json",
		"CHEMGPS_THREADS": "lots",
		"CHEMGPS_RESULTS": "tps,nonsense",
		"CHEMGPS_PORT":    "http",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
