package postgres

import (
	"context"
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema change.
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Migrator applies embedded migrations and records them in schema_migrations.
type Migrator struct {
	db *sqlx.DB
}

// NewMigrator creates a new migrator
func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db}
}

// EnsureSchema applies every pending migration.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := NewMigrator(db).Up(ctx)
	return err
}

// Up executes all pending migrations and returns the versions it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	var done []string
	for _, mig := range migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return done, fmt.Errorf("failed to apply migration %s: %w", mig.Version, err)
		}
		done = append(done, mig.Version)
	}
	return done, nil
}

// Applied returns the checksum of every applied migration by version.
func (m *Migrator) Applied(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Version  string `db:"version"`
		Checksum string `db:"checksum"`
	}
	if err := m.db.SelectContext(ctx, &rows, "SELECT version, checksum FROM schema_migrations"); err != nil {
		return nil, err
	}

	applied := make(map[string]string, len(rows))
	for _, r := range rows {
		applied[r.Version] = r.Checksum
	}
	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO schema_migrations (version, checksum) VALUES (?, ?)"),
		mig.Version, checksum([]byte(mig.SQL))); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}

// Migrations lists the embedded migrations ordered by version. File names
// follow 001_description.sql.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		name := e.Name()
		version, desc, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
		if e.IsDir() || !ok || !strings.HasSuffix(name, ".sql") {
			continue
		}
		data, err := migrationFiles.ReadFile(path.Join("migrations", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		out = append(out, Migration{Version: version, Name: desc, SQL: string(data)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func checksum(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
