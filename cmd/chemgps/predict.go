package main

import (
	"fmt"
	"io"
	"os"

	"chemgps/app"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/internal/container"

	"github.com/spf13/cobra"
)

type predictFlags struct {
	format   string
	verbose  bool
	debug    int
	batch    bool
	syslog   bool
	results  []string
	threads  string
	license  string
	logFile  string
	output   string
	dataFile string
	dataset  string
}

func newPredictCmd() *cobra.Command {
	var f predictFlags

	cmd := &cobra.Command{
		Use:   "predict [project-file]",
		Short: "Predict every model of a project",
		Long: `Load a project, predict each of its models from the configured observation
data and write the selected results.

Observation data comes from --data (.xlsx or .csv) or CHEMGPS_DATABASE_URL.

Example: chemgps predict project.yaml --data obs.csv -r tps,ypredps -f xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			return boundary("predict", runPredict(cmd, cfg, args[0], f.output))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "plain", "Output format: plain|xml")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Write section headers and generator attributes")
	flags.CountVarP(&f.debug, "debug", "d", "Increase debug level (repeatable)")
	flags.BoolVarP(&f.batch, "batch", "b", false, "Suppress informational messages")
	flags.BoolVarP(&f.syslog, "syslog", "s", false, "Log to syslog instead of stderr")
	flags.StringSliceVarP(&f.results, "result", "r", nil, "Results to write (short names or all)")
	flags.StringVarP(&f.threads, "threads", "t", "", "Engine threading: off|auto|default|N")
	flags.StringVarP(&f.license, "license", "l", "", "Engine license file")
	flags.StringVar(&f.logFile, "logfile", "", "Engine log file")
	flags.StringVarP(&f.output, "output", "o", "", "Write results to file instead of stdout")
	flags.StringVar(&f.dataFile, "data", "", "Observation data file (.xlsx or .csv)")
	flags.StringVar(&f.dataset, "dataset", "", "Dataset name in the observation database")

	return cmd
}

// apply overrides configuration values with the flags given on the command line.
func (f *predictFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Session.Format = f.format
	}
	if changed("verbose") {
		cfg.Session.Verbose = f.verbose
	}
	if changed("debug") {
		cfg.Session.Debug = f.debug
	}
	if changed("batch") {
		cfg.Session.Batch = f.batch
	}
	if changed("syslog") {
		cfg.Session.Syslog = f.syslog
	}
	if changed("result") {
		cfg.Session.Results = f.results
	}
	if changed("threads") {
		cfg.Session.Threads = f.threads
	}
	if changed("license") {
		cfg.Session.License = f.license
	}
	if changed("logfile") {
		cfg.Session.LogFile = f.logFile
	}
	if changed("data") {
		cfg.Data.File = f.dataFile
	}
	if changed("dataset") {
		cfg.Data.Dataset = f.dataset
	}
}

func runPredict(cmd *cobra.Command, cfg *config.Config, project, output string) error {
	ctx := cmd.Context()

	c, err := container.New(cfg, nil)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	opts, err := c.Options()
	if err != nil {
		return err
	}
	opts.Logger = internal.NewDefaultSink(opts.Program, opts.UseSyslog, opts.Debug)
	log := internal.NewLogger(opts.Logger, opts.Debug, opts.Batch)

	if err := c.InitDataSource(ctx, log); err != nil {
		return err
	}
	opts.DataSource = c.DataSource

	var summary *app.PredictionSummary
	err = withOutput(cmd.OutOrStdout(), output, createFile, func(out io.Writer) error {
		var err error
		summary, err = c.Predictions.Run(ctx, app.PredictionRequest{
			ProjectPath: project,
			Options:     opts,
			Output:      out,
		})
		return err
	})
	if err != nil {
		return err
	}

	log.Info("predicted %d of %d models in project %s", summary.Predicted(), len(summary.Models), summary.Project)
	return nil
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// withOutput runs write against the file at path, or against stdout when path
// is empty. A failure to close the file is returned when writing succeeded.
func withOutput(stdout io.Writer, path string, create func(string) (io.WriteCloser, error), write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}

	file, err := create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	return write(file)
}
