package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chemgps/internal"
	"chemgps/internal/api"
	"chemgps/internal/config"
	"chemgps/internal/container"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	var projectDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long: `Serve the prediction API.

  GET  /api/results                 list result kinds
  POST /api/predict?project=NAME    predict from a CSV observation table
  GET  /healthz, /metrics

Example: chemgps serve --port 8080 --projects ./projects`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return boundary("serve", runServe(cmd.Context(), cfg, projectDir))
		},
	}

	cmd.Flags().StringVar(&port, "port", config.DefaultPort, "Listen port")
	cmd.Flags().StringVar(&projectDir, "projects", ".", "Directory holding project files")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, projectDir string) error {
	c, err := container.New(cfg, nil)
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	opts, err := c.Options()
	if err != nil {
		return err
	}
	opts.Logger = internal.NewDefaultSink(opts.Program, opts.UseSyslog, opts.Debug)
	log := internal.NewLogger(opts.Logger, opts.Debug, opts.Batch)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewServer(c.Predictions, c.Metrics, *opts, projectDir, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
