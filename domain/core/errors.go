package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidOption = errors.New("invalid option")
	ErrConfiguration = errors.New("configuration error")

	// Session errors
	ErrProjectLoad = errors.New("failed load project")
	ErrThreading   = errors.New("failed apply threading policy")
	ErrCPUDetect   = errors.New("failed detect number of cpus")
	ErrNoProject   = errors.New("no valid project handle")

	// Per-model errors
	ErrModelLookup   = errors.New("model lookup failed")
	ErrUnfittedModel = errors.New("model is not fitted")
	ErrDataLoad      = errors.New("failed load prediction data")
	ErrPrediction    = errors.New("prediction failed")

	// Result errors
	ErrResultSetup   = errors.New("result setup failed")
	ErrResultInvalid = errors.New("result not valid for model")
	ErrResultQuery   = errors.New("result query failed")
)

// Error constructors with context
func NewInvalidOptionError(option int, reason string) error {
	return fmt.Errorf("%w %d: %s", ErrInvalidOption, option, reason)
}

func NewEngineError(sentinel error, op string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", sentinel, op)
	}
	return fmt.Errorf("%w: %s (%v)", sentinel, op, err)
}

// Error checking helpers
func IsFatalSessionError(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrProjectLoad) ||
		errors.Is(err, ErrThreading) ||
		errors.Is(err, ErrCPUDetect) ||
		errors.Is(err, ErrResultSetup)
}

// IsModelSkippable reports whether err only affects the current model, in which
// case the caller continues with the next one.
func IsModelSkippable(err error) bool {
	return errors.Is(err, ErrModelLookup) ||
		errors.Is(err, ErrUnfittedModel) ||
		errors.Is(err, ErrDataLoad) ||
		errors.Is(err, ErrPrediction)
}
