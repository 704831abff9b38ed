// Package dispatch queries the requested results of a prediction and writes
// them through the session's output formatter.
package dispatch

import (
	"context"
	"fmt"
	"io"

	"chemgps/domain/core"
	"chemgps/domain/matrix"
	"chemgps/domain/model"
	"chemgps/domain/result"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/internal/format"
	"chemgps/internal/session"
	"chemgps/ports"
)

// Report lists what Emit wrote and why the other requested kinds were not.
type Report struct {
	Model   int
	Emitted []result.Kind
	Skipped map[result.Kind]error
}

// request carries the per-model query state. It is released when Emit returns.
type request struct {
	model             int
	numComp           int
	modelType         model.ModelType
	reduced           bool
	primaryIncluded   bool
	residualsIncluded bool
	index1, index2    matrix.IntVector
	pred              ports.Prediction
	current           *matrix.Float
}

func newRequest(log *internal.Logger, model int, pred ports.Prediction) *request {
	log.Debug("initializing result object")
	q := &request{
		model:             model,
		pred:              pred,
		primaryIncluded:   true,
		residualsIncluded: true,
		index1:            matrix.NewIntVector(2),
		index2:            matrix.NewIntVector(2),
	}
	_ = q.index1.Set(1, 1)
	_ = q.index1.Set(2, 2)
	_ = q.index2.Set(1, 3)
	_ = q.index2.Set(2, 4)
	return q
}

func (q *request) release() {
	q.current.Clear()
	q.current = nil
	q.index1.Clear()
	q.index2.Clear()
}

// setup reads the project and model properties the validity rules depend on.
func (q *request) setup(project ports.Project, log *internal.Logger) error {
	var err error
	if q.reduced, err = project.IsReduced(); err != nil {
		log.Error("failed check if project is a reduced project (%v)", err)
		return core.NewEngineError(core.ErrResultSetup, "reduced project check", err)
	}
	if q.reduced {
		log.Debug("project is a reduced project")
		if q.primaryIncluded, err = project.IsPrimaryDataSetIncluded(); err != nil {
			log.Error("failed check if primary data set has been excluded from the project (%v)", err)
			return core.NewEngineError(core.ErrResultSetup, "primary data set check", err)
		}
		if !q.primaryIncluded {
			log.Debug("primary data set has been excluded from the project")
		}
		if q.residualsIncluded, err = project.IsModelResidualsIncluded(); err != nil {
			log.Error("failed check if the model residuals has been excluded from the project (%v)", err)
			return core.NewEngineError(core.ErrResultSetup, "model residuals check", err)
		}
		if !q.residualsIncluded {
			log.Debug("model residuals has been excluded from the project")
		}
	}

	if q.numComp, err = project.ModelComponents(q.model); err != nil {
		log.Error("failed get number of components for this model (%v)", err)
		return core.NewEngineError(core.ErrResultSetup, "number of components", err)
	}
	log.Debug("number of components for this model is %d", q.numComp)

	if q.modelType, err = project.ModelType(q.model); err != nil {
		log.Error("failed get model type for this model (%v)", err)
		return core.NewEngineError(core.ErrResultSetup, "model type", err)
	}
	if q.modelType == model.Undefined {
		log.Debug("the model type can not be determined")
	} else {
		log.Debug("the model is a %s model", q.modelType)
	}
	return nil
}

// Emit writes every result kind set in mask for the prediction of model.
// Kinds that do not apply to the model, or whose query fails, are logged and
// recorded in the report's Skipped map. Errors are returned for setup
// failures, output failures and cancellation.
func Emit(ctx context.Context, sess *session.Session, model int, pred ports.Prediction, mask result.Mask, w io.Writer) (*Report, error) {
	log := sess.Logger()
	project, err := sess.Project()
	if err != nil {
		log.Error("no valid project handle")
		return nil, err
	}

	q := newRequest(log, model, pred)
	defer func() {
		log.Debug("cleaning up result object")
		q.release()
	}()

	if err := q.setup(project, log); err != nil {
		return nil, err
	}

	opts := sess.Options
	out, err := format.New(w, opts.Format, opts.Verbose)
	if err != nil {
		return nil, core.NewEngineError(core.ErrConfiguration, "output format", err)
	}

	report := &Report{Model: model, Skipped: make(map[result.Kind]error)}
	if err := out.Begin(opts.Program, config.Version); err != nil {
		return report, err
	}

	for _, p := range producers {
		if !mask.IsSet(p.kind) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		entry, _ := result.ByID(p.kind)

		if err := p.valid(q); err != nil {
			log.Warn("%s is %v (skipped)", entry.Desc, err)
			report.Skipped[p.kind] = err
			continue
		}

		v, err := p.query(q)
		if err != nil {
			log.Error("failed get result of %s (%v)", entry.Desc, err)
			report.Skipped[p.kind] = core.NewEngineError(core.ErrResultQuery, entry.Name, err)
			continue
		}

		if err := q.write(out, entry, v, log); err != nil {
			return report, err
		}
		report.Emitted = append(report.Emitted, p.kind)
	}

	return report, out.End()
}

// write emits one result section. A value that cannot be read from the
// matrix is logged; only output errors are returned.
func (q *request) write(out format.Formatter, entry result.Entry, v value, log *internal.Logger) error {
	if err := out.Header(entry.Desc, entry.Name); err != nil {
		return err
	}
	if v.matrix == nil {
		if err := out.Scalar(v.scalar); err != nil {
			return err
		}
	} else {
		q.current = v.matrix
		if err := out.Matrix(q.current); err != nil {
			log.Error("failed get float value from matrix (%v)", err)
		}
		q.current = nil
	}
	if err := out.Footer(); err != nil {
		return fmt.Errorf("write %s: %w", entry.Name, err)
	}
	return nil
}
