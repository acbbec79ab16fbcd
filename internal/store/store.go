// Package store persists pipeline run records to a local SQLite database
// for auditability: what came in, what verdict moderation reached, and
// what went out.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		id TEXT PRIMARY KEY,
		input_text TEXT NOT NULL,
		lang_code TEXT,
		lang_name TEXT,
		confidence REAL,
		low_confidence BOOLEAN DEFAULT FALSE,
		working_text TEXT,
		approved BOOLEAN DEFAULT FALSE,
		categories TEXT,
		rationale TEXT,
		output_text TEXT,
		translated_back BOOLEAN DEFAULT FALSE,
		step TEXT NOT NULL,
		error_kind TEXT,
		duration_ms INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON pipeline_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_lang ON pipeline_runs(lang_code);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RunRecord is one persisted pipeline run.
type RunRecord struct {
	ID             string
	InputText      string
	LangCode       string
	LangName       string
	Confidence     float64
	LowConfidence  bool
	WorkingText    string
	Approved       bool
	Categories     []string
	Rationale      string
	OutputText     string
	TranslatedBack bool
	Step           string
	ErrorKind      string
	DurationMS     int64
	CreatedAt      time.Time
}

// SaveRun inserts one run record. Categories are stored as a JSON array so
// the schema stays flat.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	categories := "[]"
	if len(rec.Categories) > 0 {
		b, err := json.Marshal(rec.Categories)
		if err != nil {
			return fmt.Errorf("failed to encode categories: %w", err)
		}
		categories = string(b)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs (id, input_text, lang_code, lang_name, confidence, low_confidence, working_text, approved, categories, rationale, output_text, translated_back, step, error_kind, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, normalizeText(rec.InputText), rec.LangCode, rec.LangName, rec.Confidence,
		rec.LowConfidence, rec.WorkingText, rec.Approved, categories, rec.Rationale,
		rec.OutputText, rec.TranslatedBack, rec.Step, rec.ErrorKind, rec.DurationMS, time.Now())
	return err
}

// ListRuns returns up to limit runs ordered by most recent first. Pass
// limit ≤ 0 for all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT id, input_text, lang_code, lang_name, confidence, low_confidence, working_text, approved, categories, rationale, output_text, translated_back, step, error_kind, duration_ms, created_at
		FROM pipeline_runs ORDER BY created_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var rec RunRecord
		var categories string
		if err := rows.Scan(&rec.ID, &rec.InputText, &rec.LangCode, &rec.LangName, &rec.Confidence,
			&rec.LowConfidence, &rec.WorkingText, &rec.Approved, &categories, &rec.Rationale,
			&rec.OutputText, &rec.TranslatedBack, &rec.Step, &rec.ErrorKind, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if categories != "" && categories != "[]" {
			if err := json.Unmarshal([]byte(categories), &rec.Categories); err != nil {
				return nil, fmt.Errorf("failed to decode categories for run %s: %w", rec.ID, err)
			}
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}

// RunStats summarises the audit log.
type RunStats struct {
	Total    int
	Approved int
	Blocked  int
	Failed   int
}

// Stats returns summary statistics over all recorded runs. A run counts as
// blocked when it completed without error but moderation did not approve it.
func (s *Store) Stats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN approved THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN NOT approved AND error_kind = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error_kind != '' THEN 1 ELSE 0 END), 0)
		FROM pipeline_runs`).Scan(
		&stats.Total,
		&stats.Approved,
		&stats.Blocked,
		&stats.Failed,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Clear removes all recorded runs and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pipeline_runs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// equal inputs compare equal across runs.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
