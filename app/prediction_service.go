package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"chemgps/domain/core"
	"chemgps/internal/config"
	"chemgps/internal/dispatch"
	"chemgps/internal/metrics"
	"chemgps/internal/predict"
	"chemgps/internal/session"
	"chemgps/ports"
)

// PredictionService runs predictions for every model of a project.
type PredictionService struct {
	engine  ports.Engine
	metrics *metrics.Recorder
}

func NewPredictionService(engine ports.Engine, recorder *metrics.Recorder) *PredictionService {
	return &PredictionService{
		engine:  engine,
		metrics: recorder,
	}
}

// PredictionRequest describes one run over a project file.
type PredictionRequest struct {
	ProjectPath string
	Options     *config.Options
	CallerData  any
	Output      io.Writer
}

// ModelOutcome is the result of one model of the run.
type ModelOutcome struct {
	Index  int
	Model  int
	Err    error
	Report *dispatch.Report
}

// PredictionSummary reports what happened to each model.
type PredictionSummary struct {
	SessionID core.SessionID
	Project   string
	Models    []ModelOutcome
}

// Predicted returns the number of models whose results were written.
func (s *PredictionSummary) Predicted() int {
	n := 0
	for _, m := range s.Models {
		if m.Err == nil {
			n++
		}
	}
	return n
}

// Run loads the project, predicts each model in turn and writes the selected
// results. Models that cannot be predicted are skipped; session and result
// setup failures abort the run. The session is always closed.
func (s *PredictionService) Run(ctx context.Context, req PredictionRequest) (*PredictionSummary, error) {
	if req.Output == nil {
		return nil, fmt.Errorf("%w: no output writer", core.ErrConfiguration)
	}

	started := time.Now()
	sess, err := session.Load(ctx, s.engine, req.ProjectPath, req.Options)
	s.metrics.SessionLoaded(err)
	if err != nil {
		return nil, err
	}
	defer func() {
		sess.Close()
		s.metrics.SessionClosed(time.Since(started))
	}()

	summary := &PredictionSummary{SessionID: sess.ID, Project: sess.Name}
	for index := 1; index <= sess.Models; index++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := s.runModel(ctx, sess, index, req)
		s.metrics.ModelDone(err)
		if err != nil && !core.IsModelSkippable(err) {
			return summary, err
		}
		summary.Models = append(summary.Models, outcome)
	}
	return summary, nil
}

func (s *PredictionService) runModel(ctx context.Context, sess *session.Session, index int, req PredictionRequest) (ModelOutcome, error) {
	outcome := ModelOutcome{Index: index}

	c := predict.Init(sess, req.CallerData)
	defer c.Cleanup()

	model, err := c.Run(ctx, index)
	if err != nil {
		outcome.Err = err
		return outcome, err
	}
	outcome.Model = model

	report, err := dispatch.Emit(ctx, sess, model, c.Prediction(), sess.Options.Results, req.Output)
	if report != nil {
		s.metrics.Results(report.Emitted, report.Skipped)
	}
	outcome.Report = report
	outcome.Err = err
	return outcome, err
}
