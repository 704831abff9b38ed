package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"chemgps/domain/core"
	"chemgps/internal/config"
	apperrors "chemgps/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env file is normal; the environment is used as is.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v [%s]\n", config.DefaultProgram, err, apperrors.GetCode(err))
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           config.DefaultProgram,
		Short:         "Predict results from multivariate projects",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)

	rootCmd.AddCommand(
		newPredictCmd(),
		newResultsCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// boundary attaches an application error code to errors leaving a command.
func boundary(op string, err error) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, core.ErrConfiguration), errors.Is(err, core.ErrInvalidOption):
		return apperrors.WithCode(apperrors.CodeConfigInvalid, err)
	case core.IsFatalSessionError(err), errors.Is(err, core.ErrNoProject):
		return apperrors.EngineError(op, err)
	}
	return apperrors.Wrap(err, op+" failed")
}
