package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chemgps/adapters/excel"
	"chemgps/adapters/postgres"
	"chemgps/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{Program: "chemgps", Format: "xml", Results: []string{"tps"}},
		Data:    config.DataConfig{Dataset: "default"},
		Server:  config.ServerConfig{Port: "8080"},
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Engine)
	assert.NotNil(t, c.Metrics)
	assert.NotNil(t, c.Predictions)

	require.NoError(t, c.InitDataSource(context.Background(), nil))
	assert.Nil(t, c.DataSource)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestDataFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	require.NoError(t, os.WriteFile(path, []byte("x1,x2\n1,2\n"), 0o644))

	cfg := testConfig()
	cfg.Data.File = path
	c, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, c.InitDataSource(context.Background(), nil))
	assert.IsType(t, &excel.Source{}, c.DataSource)

	opts, err := c.Options()
	require.NoError(t, err)
	assert.Same(t, c.DataSource, opts.DataSource)
	assert.Equal(t, "chemgps", opts.Program)
}

func TestMissingDataFile(t *testing.T) {
	cfg := testConfig()
	cfg.Data.File = filepath.Join(t.TempDir(), "none.csv")
	c, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Error(t, c.InitDataSource(context.Background(), nil))
}

func TestInitWithDatabase(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	c, err := New(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, c.InitWithDatabase(context.Background(), db))
	assert.IsType(t, &postgres.Source{}, c.DataSource)
	assert.NoError(t, c.Shutdown(context.Background()))

	assert.Error(t, c.InitWithDatabase(context.Background(), nil))
}
