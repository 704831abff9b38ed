package container

import (
	"context"
	"fmt"

	"chemgps/adapters/excel"
	"chemgps/adapters/fixture"
	"chemgps/adapters/postgres"
	"chemgps/app"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/internal/metrics"
	"chemgps/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Engine  ports.Engine
	Metrics *metrics.Recorder

	// DataSource is nil when observations arrive with each request.
	DataSource ports.DataSource

	Predictions *app.PredictionService
}

// New creates a new dependency injection container. A nil engine selects the
// file-backed project engine.
func New(cfg *config.Config, engine ports.Engine) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if engine == nil {
		engine = fixture.NewEngine()
	}

	c := &Container{
		Config:  cfg,
		Engine:  engine,
		Metrics: metrics.NewRecorder(),
	}
	c.Predictions = app.NewPredictionService(c.Engine, c.Metrics)

	return c, nil
}

// InitDataSource picks the configured observation source: a database when a
// URL is set, otherwise a data file when one is named.
func (c *Container) InitDataSource(ctx context.Context, log *internal.Logger) error {
	switch {
	case c.Config.Data.DatabaseURL != "":
		db, err := postgres.Connect(ctx, c.Config.Data.DatabaseURL)
		if err != nil {
			return err
		}
		return c.InitWithDatabase(ctx, db)
	case c.Config.Data.File != "":
		src, err := excel.Open(excel.DefaultConfig(c.Config.Data.File), log)
		if err != nil {
			return err
		}
		c.DataSource = src
	}
	return nil
}

// InitWithDatabase serves observations from db.
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	c.DB = db
	c.DataSource = postgres.NewSource(db, c.Config.Data.Dataset)
	return nil
}

// Options returns session options for the configuration with the container's
// data source attached.
func (c *Container) Options() (*config.Options, error) {
	opts, err := c.Config.Options()
	if err != nil {
		return nil, err
	}
	opts.DataSource = c.DataSource
	return opts, nil
}

// Shutdown releases the database connection.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
