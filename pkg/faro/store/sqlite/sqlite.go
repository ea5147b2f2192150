// Package sqlite persists analysis runs in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/soportebi/faro/pkg/faro/internalerr"
	"github.com/soportebi/faro/pkg/faro/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	ticket_count INTEGER NOT NULL,
	original_causes INTEGER NOT NULL,
	category_count INTEGER NOT NULL,
	report_json TEXT,
	summary_json TEXT,
	config_json TEXT
);

CREATE TABLE IF NOT EXISTS run_categories (
	run_id TEXT NOT NULL,
	name TEXT NOT NULL,
	frequency INTEGER NOT NULL,
	impact TEXT NOT NULL,
	description TEXT,
	PRIMARY KEY(run_id, name),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_mappings (
	run_id TEXT NOT NULL,
	cause TEXT NOT NULL,
	category TEXT NOT NULL,
	frequency INTEGER NOT NULL,
	impact TEXT NOT NULL,
	PRIMARY KEY(run_id, cause),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run with its categories and mappings.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO runs (id, created_at, ticket_count, original_causes, category_count, report_json, summary_json, config_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	ticket_count=excluded.ticket_count,
	original_causes=excluded.original_causes,
	category_count=excluded.category_count,
	report_json=excluded.report_json,
	summary_json=excluded.summary_json,
	config_json=excluded.config_json;
`
	_, err = tx.ExecContext(
		ctx,
		stmt,
		r.ID,
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.TicketCount,
		r.OriginalCauses,
		r.CategoryCount,
		r.ReportJSON,
		r.SummaryJSON,
		r.ConfigJSON,
	)
	if err != nil {
		return err
	}

	if err := replaceCategories(ctx, tx, r.ID, r.Categories); err != nil {
		return err
	}
	if err := replaceMappings(ctx, tx, r.ID, r.Mappings); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceCategories(ctx context.Context, tx *sql.Tx, runID string, cats []store.Category) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_categories WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(cats) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_categories (run_id, name, frequency, impact, description) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range cats {
		if _, err := stmt.ExecContext(ctx, runID, c.Name, c.Frequency, c.Impact, c.Description); err != nil {
			return err
		}
	}
	return nil
}

func replaceMappings(ctx context.Context, tx *sql.Tx, runID string, rows []store.Mapping) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_mappings WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_mappings (run_id, cause, category, frequency, impact) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, m := range rows {
		if _, err := stmt.ExecContext(ctx, runID, m.Cause, m.Category, m.Frequency, m.Impact); err != nil {
			return err
		}
	}
	return nil
}

// GetRun returns a run with its categories and mappings.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	var r store.Run
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, ticket_count, original_causes, category_count, report_json, summary_json, config_json
FROM runs WHERE id=?`, id).Scan(
		&r.ID, &createdAt, &r.TicketCount, &r.OriginalCauses, &r.CategoryCount, &r.ReportJSON, &r.SummaryJSON, &r.ConfigJSON)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return store.Run{}, false, err
	}

	catRows, err := s.db.QueryContext(ctx, `
SELECT name, frequency, impact, description FROM run_categories WHERE run_id=? ORDER BY frequency DESC, name`, id)
	if err != nil {
		return store.Run{}, false, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var c store.Category
		if err := catRows.Scan(&c.Name, &c.Frequency, &c.Impact, &c.Description); err != nil {
			return store.Run{}, false, err
		}
		r.Categories = append(r.Categories, c)
	}
	if err := catRows.Err(); err != nil {
		return store.Run{}, false, err
	}

	mapRows, err := s.db.QueryContext(ctx, `
SELECT cause, category, frequency, impact FROM run_mappings WHERE run_id=? ORDER BY frequency DESC, cause`, id)
	if err != nil {
		return store.Run{}, false, err
	}
	defer mapRows.Close()
	for mapRows.Next() {
		var m store.Mapping
		if err := mapRows.Scan(&m.Cause, &m.Category, &m.Frequency, &m.Impact); err != nil {
			return store.Run{}, false, err
		}
		r.Mappings = append(r.Mappings, m)
	}
	if err := mapRows.Err(); err != nil {
		return store.Run{}, false, err
	}

	return r, true, nil
}

// ListRuns returns run summaries, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunInfo, error) {
	query := `
SELECT id, created_at, ticket_count, original_causes, category_count
FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []store.RunInfo
	for rows.Next() {
		var info store.RunInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &createdAt, &info.TicketCount, &info.OriginalCauses, &info.CategoryCount); err != nil {
			return nil, err
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetMapping returns a run's cause→category mapping, or ErrNotFound when
// no such run exists.
func (s *sqliteStore) GetMapping(ctx context.Context, runID string) (map[string]string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id=?`, runID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q: %w", runID, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT cause, category FROM run_mappings WHERE run_id=?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var cause, category string
		if err := rows.Scan(&cause, &category); err != nil {
			return nil, err
		}
		m[cause] = category
	}
	return m, rows.Err()
}
