// Package postgres serves prediction data stored in a SQL database.
package postgres

import (
	"context"
	"fmt"
	"math"
	"sort"

	apperrors "chemgps/internal/errors"
	"chemgps/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Dataset may be passed as the caller data of a run to read a dataset other
// than the source's default.
type Dataset string

// Source implements ports.DataSource over the observation_values table.
type Source struct {
	db      *sqlx.DB
	dataset string
}

// NewSource reads dataset from db.
func NewSource(db *sqlx.DB, dataset string) *Source {
	return &Source{db: db, dataset: dataset}
}

// Connect opens a postgres database at url.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, apperrors.DataSourceError("postgres", err)
	}
	return db, nil
}

func (s *Source) LoadData(ctx context.Context, req ports.DataRequest) error {
	dataset := s.dataset
	if d, ok := req.CallerData.(Dataset); ok && d != "" {
		dataset = string(d)
	}

	query, args, err := sqlx.In(`SELECT dataset, observation, variable, value, label
		FROM observation_values
		WHERE dataset = ? AND variable IN (?)
		ORDER BY observation`, dataset, req.Names)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	var cells []Cell
	if err := s.db.SelectContext(ctx, &cells, s.db.Rebind(query), args...); err != nil {
		return apperrors.DataSourceError("postgres", err)
	}
	if len(cells) == 0 {
		return apperrors.DataSourceError("postgres",
			fmt.Errorf("dataset %q has no values for %s variables", dataset, req.Category))
	}

	rows, seen := layout(cells)
	// A variable requested twice fills every column it occupies.
	cols := make(map[string][]int, len(req.Names))
	for i, name := range req.Names {
		if !seen[name] {
			return apperrors.DataSourceError("postgres",
				fmt.Errorf("dataset %q has no variable %q", dataset, name))
		}
		cols[name] = append(cols[name], i+1)
	}

	if req.Category.IsQualitative() {
		req.Strings.Init(len(rows), len(req.Names))
		for _, c := range cells {
			for _, col := range cols[c.Variable] {
				if err := req.Strings.Set(rows[c.Observation], col, c.Label.String); err != nil {
					return err
				}
			}
		}
		return nil
	}

	req.Floats.Init(len(rows), len(req.Names))
	for r := 1; r <= len(rows); r++ {
		for c := 1; c <= len(req.Names); c++ {
			if err := req.Floats.Set(r, c, math.NaN()); err != nil {
				return err
			}
		}
	}
	for _, c := range cells {
		if !c.Value.Valid {
			continue
		}
		for _, col := range cols[c.Variable] {
			if err := req.Floats.Set(rows[c.Observation], col, c.Value.Float64); err != nil {
				return err
			}
		}
	}
	return nil
}

// layout maps each observation to a 1-based row in ascending order and
// reports which variables are present.
func layout(cells []Cell) (map[int]int, map[string]bool) {
	seen := make(map[string]bool)
	obs := make(map[int]int)
	var ids []int
	for _, c := range cells {
		seen[c.Variable] = true
		if _, ok := obs[c.Observation]; !ok {
			obs[c.Observation] = 0
			ids = append(ids, c.Observation)
		}
	}
	sort.Ints(ids)
	for i, id := range ids {
		obs[id] = i + 1
	}
	return obs, seen
}
