package ports

import (
	"context"

	"chemgps/domain/matrix"
	"chemgps/domain/model"
)

// Engine is the external multivariate prediction engine. Errors returned by any
// engine method carry the engine's own last-error text.
type Engine interface {
	SetLicensePath(path string) error
	SetLogFile(path string) error
	// UseMultiThreading configures the engine's worker pool. cpus < 0 lets the
	// engine pick its default.
	UseMultiThreading(enable bool, cpus int) error
	OpenProject(ctx context.Context, path string) (Project, error)
}

// Project is one loaded project file.
type Project interface {
	Name() (string, error)
	NumObservationIDs() (int, error)
	NumVariableIDs() (int, error)
	NumModels() (int, error)

	// ModelNumber resolves a 1-based model index into the engine's model number.
	ModelNumber(index int) (int, error)
	IsModelFitted(model int) (bool, error)
	ModelComponents(model int) (int, error)
	ModelType(model int) (model.ModelType, error)

	IsReduced() (bool, error)
	IsPrimaryDataSetIncluded() (bool, error)
	IsModelResidualsIncluded() (bool, error)

	QuantitativeNames(model int) (matrix.StringVector, error)
	LagParentNames(model int, qualitative bool) (matrix.StringVector, error)
	QualitativeNames(model int) (matrix.StringVector, error)
	// CompleteLagNames lists every lagged variable derived from the 1-based parent.
	CompleteLagNames(model, parent int, qualitative bool) (matrix.StringVector, error)

	// Predict runs the model on the given inputs; either container may be nil.
	// The engine does not take ownership of the inputs.
	Predict(model int, obs *ObservationData, qual *QualitativeData) (Prediction, error)

	Close() error
}

// ObservationData wraps the quantitative inputs of a prediction.
type ObservationData struct {
	Raw *matrix.Float
	Lag *matrix.Float
}

// QualitativeData wraps the qualitative inputs of a prediction.
type QualitativeData struct {
	Raw *matrix.String
	Lag *matrix.String
}

// ContributionParams parameterises the contribution queries. Group1/Group2 are
// used by the group variants in place of Obs1/Obs2.
type ContributionParams struct {
	Obs1, Obs2     int
	Group1, Group2 *matrix.IntVector
	Weight         model.Weight
	NumComp        int
	YColumn        int
	Components     []int
	Reconstruct    bool
}

// DistanceParams parameterises DModX queries.
type DistanceParams struct {
	Components            []int
	Normalized            bool
	ModelingPowerWeighted bool
}

// ObservationParams parameterises X observation queries.
type ObservationParams struct {
	NumComp         int
	Unscaled        bool
	BackTransformed bool
	Observations    []int
	Reconstruct     bool
}

// VariableParams parameterises X variable queries.
type VariableParams struct {
	NumComp         int
	Columns         []int
	Unscaled        bool
	BackTransformed bool
	Standardized    bool
}

// ResponseParams parameterises Y queries. YColumn is used by single column queries.
type ResponseParams struct {
	NumComp         int
	Unscaled        bool
	BackTransformed bool
	Standardized    bool
	YColumns        []int
	YColumn         int
	Observations    []int
}

// Prediction is a live prediction handle. Every query returns a freshly
// allocated matrix owned by the caller.
type Prediction interface {
	ContributionsSSW(p ContributionParams) (*matrix.Float, error)
	ContributionsSSWGroup(p ContributionParams) (*matrix.Float, error)
	ContributionsSMW(p ContributionParams) (*matrix.Float, error)
	ContributionsSMWGroup(p ContributionParams) (*matrix.Float, error)
	ContributionsDModX(p ContributionParams) (*matrix.Float, error)
	ContributionsDModXGroup(p ContributionParams) (*matrix.Float, error)

	DModX(p DistanceParams) (*matrix.Float, error)
	DModXCombined(p DistanceParams) (*matrix.Float, error)
	PModX(components []int) (*matrix.Float, error)
	PModXCombined(components []int) (*matrix.Float, error)

	T(components []int) (*matrix.Float, error)
	Tcv(numComp int) (*matrix.Float, error)
	TcvSE(numComp int) (*matrix.Float, error)
	TcvSEDF(numComp int) (float64, error)

	T2Range(fromComp, toComp int) (*matrix.Float, error)
	XObsRes(p ObservationParams) (*matrix.Float, error)
	XObsPred(p ObservationParams) (*matrix.Float, error)
	XVar(p VariableParams) (*matrix.Float, error)
	XVarRes(p VariableParams) (*matrix.Float, error)

	SerrL(numComp int, yColumns []int) (*matrix.Float, error)
	SerrU(numComp int, yColumns []int) (*matrix.Float, error)

	YPred(p ResponseParams) (*matrix.Float, error)
	YPredCVConfInt(p ResponseParams) (*matrix.Float, error)
	YCV(p ResponseParams) (*matrix.Float, error)
	YCVSE(numComp int, yColumns []int) (*matrix.Float, error)
	YObsRes(p ResponseParams) (*matrix.Float, error)
	YVar(p ResponseParams) (*matrix.Float, error)
	YVarRes(p ResponseParams) (*matrix.Float, error)

	Release() error
}
