// Package predict runs one model prediction: it resolves the model, gathers
// the input data and owns everything allocated until Cleanup.
package predict

import (
	"context"
	"errors"
	"fmt"

	"chemgps/domain/core"
	"chemgps/domain/matrix"
	"chemgps/internal"
	"chemgps/internal/session"
	"chemgps/ports"
)

// State is the lifecycle position of a Context.
type State int

const (
	StateInitialized State = iota
	StateModelResolved
	StateDataAssembled
	StatePredicted
	StateCleanedUp
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateModelResolved:
		return "model-resolved"
	case StateDataAssembled:
		return "data-assembled"
	case StatePredicted:
		return "predicted"
	case StateCleanedUp:
		return "cleaned-up"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var errContextUsed = errors.New("prediction context already used")

// Context holds the inputs and the engine handle of a single prediction.
type Context struct {
	sess       *session.Session
	log        *internal.Logger
	callerData any
	state      State
	model      int

	quantRaw *matrix.Float
	lagRaw   *matrix.Float
	qualRaw  *matrix.String
	qualLag  *matrix.String

	quantNames   matrix.StringVector
	lagParents   matrix.StringVector
	qualNames    matrix.StringVector
	qualLagNames matrix.StringVector

	obs        *ports.ObservationData
	qual       *ports.QualitativeData
	prediction ports.Prediction
}

// Init prepares an empty context. callerData is passed through to the data
// source untouched.
func Init(sess *session.Session, callerData any) *Context {
	return &Context{
		sess:       sess,
		log:        sess.Logger(),
		callerData: callerData,
		state:      StateInitialized,
	}
}

func (c *Context) State() State { return c.state }

// Model returns the engine model number resolved by Run.
func (c *Context) Model() int { return c.model }

// Prediction returns the live prediction handle, nil before a successful Run.
func (c *Context) Prediction() ports.Prediction { return c.prediction }

// Run predicts the model at the 1-based index and returns its model number.
// Whatever the outcome, Cleanup must be called afterwards.
func (c *Context) Run(ctx context.Context, index int) (int, error) {
	if c.state != StateInitialized {
		return 0, errContextUsed
	}
	project, err := c.sess.Project()
	if err != nil {
		return 0, err
	}

	model, err := project.ModelNumber(index)
	if err != nil {
		c.log.Error("failed get model number for model index %d", index)
		return 0, core.NewEngineError(core.ErrModelLookup, fmt.Sprintf("model index %d", index), err)
	}
	c.log.Debug("got model number %d for model index %d", model, index)

	fitted, err := project.IsModelFitted(model)
	if err != nil {
		fitted = false
		c.log.Error("failed check if model is fitted")
	} else if fitted {
		c.log.Debug("model number %d is fitted", model)
	}
	if !fitted {
		c.log.Error("model number %d is not fitted (skipped model)", model)
		return 0, core.NewEngineError(core.ErrUnfittedModel, fmt.Sprintf("model number %d", model), err)
	}
	c.model = model
	c.state = StateModelResolved

	if err := c.assemble(ctx, project); err != nil {
		return 0, err
	}
	c.state = StateDataAssembled

	if c.quantRaw != nil || c.lagRaw != nil {
		c.obs = &ports.ObservationData{Raw: c.quantRaw, Lag: c.lagRaw}
	}
	if c.qualRaw != nil || c.qualLag != nil {
		c.qual = &ports.QualitativeData{Raw: c.qualRaw, Lag: c.qualLag}
	}

	pred, err := project.Predict(model, c.obs, c.qual)
	if err != nil {
		c.log.Error("failed call predict (%v)", err)
		return 0, core.NewEngineError(core.ErrPrediction, "failed call predict", err)
	}
	c.prediction = pred
	c.state = StatePredicted
	return model, nil
}

// Cleanup releases everything the context holds. It never fails and may be
// called any number of times.
func (c *Context) Cleanup() {
	if c.state == StateCleanedUp {
		return
	}
	c.log.Debug("cleaning up after prediction")

	for _, names := range []*matrix.StringVector{&c.quantNames, &c.lagParents, &c.qualNames, &c.qualLagNames} {
		if names.Len() > 0 {
			names.Clear()
		}
	}

	if c.obs != nil {
		if c.obs.Raw != nil {
			c.obs.Raw.Clear()
			c.obs.Raw = nil
		}
		if c.obs.Lag != nil {
			c.obs.Lag.Clear()
			c.obs.Lag = nil
		}
		c.obs = nil
	}
	c.quantRaw.Clear()
	c.lagRaw.Clear()
	c.quantRaw, c.lagRaw = nil, nil

	if c.qual != nil {
		if c.qual.Raw != nil {
			c.qual.Raw.Clear()
			c.qual.Raw = nil
		}
		if c.qual.Lag != nil {
			c.qual.Lag.Clear()
			c.qual.Lag = nil
		}
		c.qual = nil
	}
	c.qualRaw.Clear()
	c.qualLag.Clear()
	c.qualRaw, c.qualLag = nil, nil

	if c.prediction != nil {
		if err := c.prediction.Release(); err != nil {
			c.log.Error("failed release handle for predict (%v)", err)
		}
		c.prediction = nil
	}
	c.state = StateCleanedUp
}

