package dispatch

import (
	"chemgps/domain/core"
	"chemgps/domain/matrix"
	"chemgps/domain/model"
	"chemgps/domain/result"
	"chemgps/ports"
)

// invalidError explains why a result kind does not apply to a model.
type invalidError struct {
	reason string
}

func (e *invalidError) Error() string { return e.reason }

func (e *invalidError) Unwrap() error { return core.ErrResultInvalid }

var (
	errZeroComponents = &invalidError{"not valid for a zero component model"}
	errNotPLS         = &invalidError{"only valid for a PLS model"}
	errNoResiduals    = &invalidError{"only valid if model residuals is still in the project"}
)

// value is a query result: a matrix, or a scalar when matrix is nil.
type value struct {
	matrix *matrix.Float
	scalar float64
}

// producer emits one result kind.
type producer struct {
	kind  result.Kind
	valid func(q *request) error
	query func(q *request) (value, error)
}

func always(*request) error { return nil }

func needComponents(q *request) error {
	if q.numComp <= 0 {
		return errZeroComponents
	}
	return nil
}

func needPLSResiduals(q *request) error {
	if !q.modelType.IsPLS() {
		return errNotPLS
	}
	if !q.residualsIncluded {
		return errNoResiduals
	}
	return nil
}

func needPLSComponents(q *request) error {
	if q.numComp <= 0 || !q.modelType.IsPLS() {
		return errNotPLS
	}
	return nil
}

func fromMatrix(m *matrix.Float, err error) (value, error) {
	if err != nil {
		return value{}, err
	}
	if m == nil {
		m = &matrix.Float{}
	}
	return value{matrix: m}, nil
}

// producers is ordered as the result catalog.
var producers = []producer{
	{result.ContribSSW, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.ContributionsSSW(ports.ContributionParams{
			Obs1: 0, Obs2: 1, Weight: model.NoWeight, NumComp: q.numComp, YColumn: 1,
		}))
	}},
	{result.ContribSSWGroup, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.ContributionsSSWGroup(ports.ContributionParams{
			Group1: &q.index1, Group2: &q.index2, Weight: model.NoWeight, NumComp: q.numComp, YColumn: 1,
		}))
	}},
	{result.ContribSMW, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.ContributionsSMW(ports.ContributionParams{
			Obs1: 0, Obs2: 1, Weight: model.WeightP,
		}))
	}},
	{result.ContribSMWGroup, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.ContributionsSMWGroup(ports.ContributionParams{
			Group1: &q.index1, Group2: &q.index2, Weight: model.WeightP,
		}))
	}},
	{result.ContribDModX, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.ContributionsDModX(ports.ContributionParams{
			Obs1: 1, Weight: model.WeightRX, NumComp: q.numComp, YColumn: 1,
		}))
	}},
	{result.ContribDModXGroup, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.ContributionsDModXGroup(ports.ContributionParams{
			Group1: &q.index1, Weight: model.WeightRX, NumComp: q.numComp, YColumn: 1,
		}))
	}},
	{result.DModXPS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.DModX(ports.DistanceParams{Normalized: true}))
	}},
	{result.DModXPSCombined, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.DModXCombined(ports.DistanceParams{Normalized: true}))
	}},
	{result.PModXPS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.PModX(nil))
	}},
	{result.PModXCombinedPS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.PModXCombined(nil))
	}},
	{result.TPS, needComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.T(nil))
	}},
	{result.TcvPS, needComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.Tcv(q.numComp))
	}},
	{result.TcvSEPS, needComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.TcvSE(q.numComp))
	}},
	{result.TcvSEDFPS, needComponents, func(q *request) (value, error) {
		f, err := q.pred.TcvSEDF(q.numComp)
		return value{scalar: f}, err
	}},
	{result.T2RangePS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.T2Range(1, q.numComp))
	}},
	{result.XObsResPS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.XObsRes(ports.ObservationParams{
			NumComp: q.numComp, Unscaled: true, BackTransformed: true, Reconstruct: true,
		}))
	}},
	{result.XObsPredPS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.XObsPred(ports.ObservationParams{
			NumComp: q.numComp, Unscaled: true, BackTransformed: true, Reconstruct: true,
		}))
	}},
	{result.XVarPS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.XVar(ports.VariableParams{Unscaled: true, BackTransformed: true}))
	}},
	{result.XVarResPS, always, func(q *request) (value, error) {
		return fromMatrix(q.pred.XVarRes(ports.VariableParams{
			NumComp: q.numComp, Unscaled: true, BackTransformed: true,
		}))
	}},
	{result.SerrLPS, needPLSResiduals, func(q *request) (value, error) {
		return fromMatrix(q.pred.SerrL(q.numComp, nil))
	}},
	{result.SerrUPS, needPLSResiduals, func(q *request) (value, error) {
		return fromMatrix(q.pred.SerrU(q.numComp, nil))
	}},
	{result.YPredPS, needPLSComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.YPred(ports.ResponseParams{NumComp: q.numComp, Unscaled: true}))
	}},
	{result.YPredCVConfIntPS, needPLSComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.YPredCVConfInt(ports.ResponseParams{NumComp: q.numComp, Unscaled: true}))
	}},
	{result.YcvPS, needPLSComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.YCV(ports.ResponseParams{NumComp: q.numComp, Unscaled: true, YColumn: 1}))
	}},
	{result.YcvSEPS, needPLSComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.YCVSE(q.numComp, nil))
	}},
	{result.YObsResPS, needPLSComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.YObsRes(ports.ResponseParams{NumComp: q.numComp, Unscaled: true}))
	}},
	{result.YVarPS, needPLSComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.YVar(ports.ResponseParams{NumComp: q.numComp, Unscaled: true}))
	}},
	{result.YVarResPS, needPLSComponents, func(q *request) (value, error) {
		return fromMatrix(q.pred.YVarRes(ports.ResponseParams{NumComp: q.numComp, Unscaled: true, Standardized: true}))
	}},
}
