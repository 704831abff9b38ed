package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Cell is one stored observation value.
type Cell struct {
	Dataset     string          `db:"dataset"`
	Observation int             `db:"observation"`
	Variable    string          `db:"variable"`
	Value       sql.NullFloat64 `db:"value"`
	Label       sql.NullString  `db:"label"`
}

// InsertCells stores cells in a single transaction.
func InsertCells(ctx context.Context, db *sqlx.DB, cells []Cell) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO observation_values (dataset, observation, variable, value, label)
		VALUES (:dataset, :observation, :variable, :value, :label)`
	for _, c := range cells {
		if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
			return fmt.Errorf("failed to insert %s/%d/%s: %w", c.Dataset, c.Observation, c.Variable, err)
		}
	}
	return tx.Commit()
}
