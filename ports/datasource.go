package ports

import (
	"context"

	"chemgps/domain/matrix"
	"chemgps/domain/model"
)

// DataSource supplies observation data for a prediction. It is invoked once per
// non-empty data category per model.
type DataSource interface {
	LoadData(ctx context.Context, req DataRequest) error
}

// DataRequest describes one load. Exactly one of Floats and Strings is set,
// depending on whether the category is qualitative; the source fills it.
type DataRequest struct {
	Project    string
	Model      int
	CallerData any
	Floats     *matrix.Float
	Strings    *matrix.String
	Names      []string
	Category   model.Category
}

// DataSourceFunc adapts a function to the DataSource interface.
type DataSourceFunc func(ctx context.Context, req DataRequest) error

func (f DataSourceFunc) LoadData(ctx context.Context, req DataRequest) error {
	return f(ctx, req)
}
