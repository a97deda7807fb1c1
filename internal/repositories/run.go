// package repositories provides the persistence layer for the run log.
//
// Every apply run is recorded in a local sqlite database so past syncs can be
// inspected with the history command.
package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"monthlify/internal/shared"
)

// RunRecord represents one completed sync run.
type RunRecord struct {
	ID      string
	RanAt   time.Time
	Months  []string // months touched by the run, oldest first
	Created int      // playlists created
	Added   int      // tracks added across all months
	Removed int      // tracks removed across all months
	Failed  int      // months that could not be fully applied
}

const runSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		ran_at TIMESTAMP NOT NULL,
		months TEXT NOT NULL,
		created INTEGER NOT NULL DEFAULT 0,
		added INTEGER NOT NULL DEFAULT 0,
		removed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at);
`

// RunRepository stores and queries run records.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates the repository and ensures the schema exists.
func NewRunRepository(db *sql.DB) (*RunRepository, error) {
	if _, err := db.Exec(runSchema); err != nil {
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &RunRepository{db: db}, nil
}

// Create inserts a new run record with a generated ID.
func (r *RunRepository) Create(record *RunRecord) error {
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}
	if record.RanAt.IsZero() {
		record.RanAt = time.Now().UTC()
	}

	query := `
		INSERT INTO runs (id, ran_at, months, created, added, removed, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID,
		record.RanAt,
		strings.Join(record.Months, ","),
		record.Created,
		record.Added,
		record.Removed,
		record.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// List returns the most recent runs, newest first, up to limit. A limit of
// zero or less returns all runs.
func (r *RunRepository) List(limit int) ([]RunRecord, error) {
	query := `
		SELECT id, ran_at, months, created, added, removed, failed
		FROM runs
		ORDER BY ran_at DESC
	`
	args := []any{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			record    RunRecord
			monthsCol string
		)

		if err := rows.Scan(&record.ID, &record.RanAt, &monthsCol, &record.Created, &record.Added, &record.Removed, &record.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if monthsCol != "" {
			record.Months = strings.Split(monthsCol, ",")
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return records, nil
}
