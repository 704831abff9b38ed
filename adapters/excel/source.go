package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"chemgps/internal"
	apperrors "chemgps/internal/errors"
	"chemgps/ports"
)

// Source serves prediction data from an observation table. A *Table passed as
// the caller data of a run takes precedence over the table the source was
// built with.
type Source struct {
	table *Table
}

// NewSource returns a source over table. table may be nil when every run
// passes its own table as caller data.
func NewSource(table *Table) *Source {
	return &Source{table: table}
}

// Open reads the file described by cfg and returns a source over it.
func Open(cfg Config, log *internal.Logger) (*Source, error) {
	table, err := NewDataReader(cfg, log).ReadTable()
	if err != nil {
		return nil, apperrors.DataSourceError("excel", err)
	}
	return NewSource(table), nil
}

// Table returns the table the source was built with.
func (s *Source) Table() *Table { return s.table }

func (s *Source) LoadData(ctx context.Context, req ports.DataRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	table := s.table
	if t, ok := req.CallerData.(*Table); ok && t != nil {
		table = t
	}
	if table == nil {
		return apperrors.DataSourceError("excel", fmt.Errorf("no observation table"))
	}

	cols := make([]int, len(req.Names))
	for i, name := range req.Names {
		col, ok := table.Column(name)
		if !ok {
			return apperrors.DataSourceError("excel", fmt.Errorf("no column for %s %q", req.Category, name))
		}
		cols[i] = col
	}

	if req.Category.IsQualitative() {
		req.Strings.Init(table.Len(), len(cols))
		for r := range table.Rows {
			for c, col := range cols {
				if err := req.Strings.Set(r+1, c+1, table.Cell(r, col)); err != nil {
					return err
				}
			}
		}
		return nil
	}

	req.Floats.Init(table.Len(), len(cols))
	for r := range table.Rows {
		for c, col := range cols {
			v, err := parseValue(table.Cell(r, col))
			if err != nil {
				return apperrors.DataSourceError("excel",
					fmt.Errorf("row %d column %q: %w", r+2, table.Headers[col], err))
			}
			if err := req.Floats.Set(r+1, c+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseValue converts a cell to a number. Empty cells are missing values.
func parseValue(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
