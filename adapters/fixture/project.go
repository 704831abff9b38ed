package fixture

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"chemgps/domain/matrix"
	"chemgps/domain/model"
	"chemgps/ports"
)

type project struct {
	engine *Engine
	file   *ProjectFile
	closed bool
}

var errClosed = errors.New("project is closed")

func (p *project) call(method string, args ...any) error {
	if p.closed {
		return errClosed
	}
	return p.engine.record(method, args...)
}

func (p *project) Name() (string, error) {
	if err := p.call("Name"); err != nil {
		return "", err
	}
	return p.file.Name, nil
}

func (p *project) NumObservationIDs() (int, error) {
	if err := p.call("NumObservationIDs"); err != nil {
		return 0, err
	}
	return p.file.ObservationIDs, nil
}

func (p *project) NumVariableIDs() (int, error) {
	if err := p.call("NumVariableIDs"); err != nil {
		return 0, err
	}
	return p.file.VariableIDs, nil
}

func (p *project) NumModels() (int, error) {
	if err := p.call("NumModels"); err != nil {
		return 0, err
	}
	return len(p.file.Models), nil
}

func (p *project) ModelNumber(index int) (int, error) {
	if err := p.call("ModelNumber", index); err != nil {
		return 0, err
	}
	if index < 1 || index > len(p.file.Models) {
		return 0, fmt.Errorf("model index %d out of range", index)
	}
	return p.file.Models[index-1].Number, nil
}

func (p *project) lookup(method string, number int) (*ModelFile, error) {
	if err := p.call(method, number); err != nil {
		return nil, err
	}
	return p.file.model(number)
}

func (p *project) IsModelFitted(number int) (bool, error) {
	m, err := p.lookup("IsModelFitted", number)
	if err != nil {
		return false, err
	}
	return m.Fitted, nil
}

func (p *project) ModelComponents(number int) (int, error) {
	m, err := p.lookup("ModelComponents", number)
	if err != nil {
		return 0, err
	}
	return m.Components, nil
}

func (p *project) ModelType(number int) (model.ModelType, error) {
	m, err := p.lookup("ModelType", number)
	if err != nil {
		return model.Undefined, err
	}
	return m.Type, nil
}

func (p *project) IsReduced() (bool, error) {
	if err := p.call("IsReduced"); err != nil {
		return false, err
	}
	return p.file.Reduced, nil
}

func (p *project) IsPrimaryDataSetIncluded() (bool, error) {
	if err := p.call("IsPrimaryDataSetIncluded"); err != nil {
		return false, err
	}
	return p.file.PrimaryDataIncluded == nil || *p.file.PrimaryDataIncluded, nil
}

func (p *project) IsModelResidualsIncluded() (bool, error) {
	if err := p.call("IsModelResidualsIncluded"); err != nil {
		return false, err
	}
	return p.file.ResidualsIncluded == nil || *p.file.ResidualsIncluded, nil
}

func (p *project) QuantitativeNames(number int) (matrix.StringVector, error) {
	m, err := p.lookup("QuantitativeNames", number)
	if err != nil {
		return matrix.StringVector{}, err
	}
	return matrix.NewStringVector(m.Quantitative...), nil
}

func (p *project) LagParentNames(number int, qualitative bool) (matrix.StringVector, error) {
	m, err := p.lookup("LagParentNames", number)
	if err != nil {
		return matrix.StringVector{}, err
	}
	if qualitative {
		return matrix.NewStringVector(m.QualitativeLagParents...), nil
	}
	return matrix.NewStringVector(m.LagParents...), nil
}

func (p *project) QualitativeNames(number int) (matrix.StringVector, error) {
	m, err := p.lookup("QualitativeNames", number)
	if err != nil {
		return matrix.StringVector{}, err
	}
	return matrix.NewStringVector(m.Qualitative...), nil
}

func (p *project) CompleteLagNames(number, parent int, qualitative bool) (matrix.StringVector, error) {
	m, err := p.lookup("CompleteLagNames", number)
	if err != nil {
		return matrix.StringVector{}, err
	}
	parents := m.LagParents
	if qualitative {
		parents = m.QualitativeLagParents
	}
	if parent < 1 || parent > len(parents) {
		return matrix.StringVector{}, fmt.Errorf("lag parent %d out of range", parent)
	}
	return matrix.NewStringVector(m.Lags[parents[parent-1]]...), nil
}

// Predict projects the quantitative inputs onto the model. Qualitative inputs
// are accepted but do not influence the results.
func (p *project) Predict(number int, obs *ports.ObservationData, qual *ports.QualitativeData) (ports.Prediction, error) {
	m, err := p.lookup("Predict", number)
	if err != nil {
		return nil, err
	}
	if !m.Fitted {
		return nil, fmt.Errorf("model %d is not fitted", number)
	}

	var x *mat.Dense
	if obs != nil {
		switch {
		case !obs.Raw.Empty():
			x = obs.Raw.Dense()
		case !obs.Lag.Empty():
			x = obs.Lag.Dense()
		}
	}
	pred, err := newPrediction(p.engine, m, x)
	if err != nil {
		return nil, err
	}

	p.engine.mu.Lock()
	p.engine.livePredict++
	p.engine.mu.Unlock()
	return pred, nil
}

func (p *project) Close() error {
	if p.closed {
		return errClosed
	}
	if err := p.engine.record("Close"); err != nil {
		return err
	}
	p.closed = true
	p.engine.mu.Lock()
	p.engine.openCount--
	p.engine.mu.Unlock()
	return nil
}
