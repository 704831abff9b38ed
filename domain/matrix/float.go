// Package matrix provides the containers exchanged with the prediction engine.
// Indexing is 1-based to match the engine's conventions.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Float is a dense float matrix. The zero value is an empty matrix.
type Float struct {
	dense *mat.Dense
}

// NewFloat allocates a zero filled rows x cols matrix.
func NewFloat(rows, cols int) *Float {
	f := &Float{}
	f.Init(rows, cols)
	return f
}

// FloatFrom wraps data given in row-major order.
func FloatFrom(rows, cols int, data []float64) (*Float, error) {
	if rows <= 0 || cols <= 0 {
		return &Float{}, nil
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("matrix data has %d values, expected %d", len(data), rows*cols)
	}
	return &Float{dense: mat.NewDense(rows, cols, data)}, nil
}

// FromDense takes ownership of d.
func FromDense(d *mat.Dense) *Float {
	if d == nil || d.IsEmpty() {
		return &Float{}
	}
	return &Float{dense: d}
}

// Init (re)allocates the matrix, discarding any previous content.
func (f *Float) Init(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		f.dense = nil
		return
	}
	f.dense = mat.NewDense(rows, cols, nil)
}

// Rows returns the number of rows.
func (f *Float) Rows() int {
	if f == nil || f.dense == nil {
		return 0
	}
	r, _ := f.dense.Dims()
	return r
}

// Cols returns the number of columns.
func (f *Float) Cols() int {
	if f == nil || f.dense == nil {
		return 0
	}
	_, c := f.dense.Dims()
	return c
}

// Empty reports whether the matrix holds no data.
func (f *Float) Empty() bool {
	return f.Rows() == 0
}

// At returns the value at the 1-based position.
func (f *Float) At(row, col int) (float64, error) {
	if err := f.check(row, col); err != nil {
		return 0, err
	}
	return f.dense.At(row-1, col-1), nil
}

// Set stores v at the 1-based position.
func (f *Float) Set(row, col int, v float64) error {
	if err := f.check(row, col); err != nil {
		return err
	}
	f.dense.Set(row-1, col-1, v)
	return nil
}

// Dense exposes the underlying gonum matrix, nil when empty.
func (f *Float) Dense() *mat.Dense {
	if f == nil {
		return nil
	}
	return f.dense
}

// Clear releases the matrix storage.
func (f *Float) Clear() {
	if f != nil {
		f.dense = nil
	}
}

func (f *Float) check(row, col int) error {
	rows, cols := f.Rows(), f.Cols()
	if row < 1 || row > rows || col < 1 || col > cols {
		return fmt.Errorf("index (%d,%d) out of range for %dx%d matrix", row, col, rows, cols)
	}
	return nil
}
