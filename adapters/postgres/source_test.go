package postgres

import (
	"context"
	"database/sql"
	"math"
	"testing"

	"chemgps/domain/matrix"
	"chemgps/domain/model"
	apperrors "chemgps/internal/errors"
	"chemgps/ports"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, EnsureSchema(context.Background(), db))
	return db
}

func num(dataset string, obs int, variable string, v float64) Cell {
	return Cell{Dataset: dataset, Observation: obs, Variable: variable, Value: sql.NullFloat64{Float64: v, Valid: true}}
}

func label(dataset string, obs int, variable, l string) Cell {
	return Cell{Dataset: dataset, Observation: obs, Variable: variable, Label: sql.NullString{String: l, Valid: true}}
}

func seed(t *testing.T, db *sqlx.DB) {
	t.Helper()
	require.NoError(t, InsertCells(context.Background(), db, []Cell{
		num("default", 20, "x1", 3),
		num("default", 10, "x1", 1),
		num("default", 10, "x2", 2),
		num("default", 20, "x2", 4),
		num("default", 30, "x1", 5),
		label("default", 10, "class", "A"),
		label("default", 20, "class", "B"),
		num("other", 1, "x1", 99),
	}))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := newDB(t)
	assert.NoError(t, EnsureSchema(context.Background(), db))
}

func TestLoadQuantitative(t *testing.T) {
	db := newDB(t)
	seed(t, db)

	req := ports.DataRequest{Floats: &matrix.Float{}, Names: []string{"x2", "x1"}, Category: model.Quantitative}
	require.NoError(t, NewSource(db, "default").LoadData(context.Background(), req))

	require.Equal(t, 3, req.Floats.Rows())
	require.Equal(t, 2, req.Floats.Cols())

	v, err := req.Floats.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = req.Floats.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	// observation 30 has no x2
	v, err = req.Floats.At(3, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestLoadRepeatedVariableFillsEveryColumn(t *testing.T) {
	db := newDB(t)
	seed(t, db)

	req := ports.DataRequest{Floats: &matrix.Float{}, Names: []string{"x1", "x2", "x1"}, Category: model.Quantitative}
	require.NoError(t, NewSource(db, "default").LoadData(context.Background(), req))
	require.Equal(t, 3, req.Floats.Cols())

	for r, want := range []float64{1, 3, 5} {
		for _, c := range []int{1, 3} {
			v, err := req.Floats.At(r+1, c)
			require.NoError(t, err)
			assert.Equal(t, want, v, "row %d col %d", r+1, c)
		}
	}
}

func TestLoadQualitative(t *testing.T) {
	db := newDB(t)
	seed(t, db)

	req := ports.DataRequest{Strings: &matrix.String{}, Names: []string{"class"}, Category: model.Qualitative}
	require.NoError(t, NewSource(db, "default").LoadData(context.Background(), req))
	v, err := req.Strings.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "B", v)
}

func TestCallerDataset(t *testing.T) {
	db := newDB(t)
	seed(t, db)

	req := ports.DataRequest{Floats: &matrix.Float{}, Names: []string{"x1"}, Category: model.Quantitative, CallerData: Dataset("other")}
	require.NoError(t, NewSource(db, "default").LoadData(context.Background(), req))
	v, err := req.Floats.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 99.0, v)
}

func TestLoadMissingVariable(t *testing.T) {
	db := newDB(t)
	seed(t, db)
	src := NewSource(db, "default")

	err := src.LoadData(context.Background(), ports.DataRequest{Floats: &matrix.Float{}, Names: []string{"x1", "x9"}, Category: model.Quantitative})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDataSourceError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), `"x9"`)

	err = src.LoadData(context.Background(), ports.DataRequest{Floats: &matrix.Float{}, Names: []string{"x9"}, Category: model.Quantitative})
	assert.Error(t, err)
}
