package report

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id            TEXT NOT NULL,
	filename          TEXT NOT NULL,
	status            TEXT NOT NULL,
	period            TEXT,
	genre             TEXT,
	period_confidence TEXT,
	genre_confidence  TEXT,
	source            TEXT,
	reject_reason     TEXT,
	content_hash      TEXT,
	processed_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
CREATE INDEX IF NOT EXISTS idx_documents_label ON documents(period, genre);
`

// Store persists audit records in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the audit database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert writes one audit record.
func (s *Store) Insert(ctx context.Context, r Record) error {
	return s.insert(ctx, s.db, r)
}

// InsertBatch writes records transactionally; either every record lands or
// none do.
func (s *Store) InsertBatch(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit batch: %w", err)
	}
	for _, r := range records {
		if err := s.insert(ctx, tx, r); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audit batch: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, db execer, r Record) error {
	const query = `
INSERT INTO documents (
	run_id, filename, status, period, genre,
	period_confidence, genre_confidence, source,
	reject_reason, content_hash, processed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, query,
		r.RunID, r.Filename, r.Status, r.Period, r.Genre,
		r.PeriodConfidence, r.GenreConfidence, r.Source,
		r.RejectReason, r.ContentHash, r.ProcessedAt.Format("2006-01-02T15:04:05Z"))
	if err != nil {
		return fmt.Errorf("insert audit record for %s: %w", r.Filename, err)
	}
	return nil
}

// LabelCount is one period/genre bucket total for a run.
type LabelCount struct {
	Period string `json:"period"`
	Genre  string `json:"genre"`
	Count  int    `json:"count"`
}

// RunSummary aggregates one run's audit rows.
type RunSummary struct {
	RunID    string         `json:"run_id"`
	ByStatus map[string]int `json:"by_status"`
	ByLabel  []LabelCount   `json:"by_label"`
	ByReason map[string]int `json:"by_reason"`
}

// Summarize aggregates the audit rows of one run.
func (s *Store) Summarize(ctx context.Context, runID string) (RunSummary, error) {
	summary := RunSummary{
		RunID:    runID,
		ByStatus: make(map[string]int),
		ByReason: make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM documents WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return summary, fmt.Errorf("summarize statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return summary, fmt.Errorf("scan status row: %w", err)
		}
		summary.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("summarize statuses: %w", err)
	}

	labelRows, err := s.db.QueryContext(ctx,
		`SELECT period, genre, COUNT(*) FROM documents
		 WHERE run_id = ? AND status = 'curated'
		 GROUP BY period, genre ORDER BY period, genre`, runID)
	if err != nil {
		return summary, fmt.Errorf("summarize labels: %w", err)
	}
	defer labelRows.Close()
	for labelRows.Next() {
		var lc LabelCount
		if err := labelRows.Scan(&lc.Period, &lc.Genre, &lc.Count); err != nil {
			return summary, fmt.Errorf("scan label row: %w", err)
		}
		summary.ByLabel = append(summary.ByLabel, lc)
	}
	if err := labelRows.Err(); err != nil {
		return summary, fmt.Errorf("summarize labels: %w", err)
	}

	reasonRows, err := s.db.QueryContext(ctx,
		`SELECT reject_reason, COUNT(*) FROM documents
		 WHERE run_id = ? AND status = 'rejected'
		 GROUP BY reject_reason`, runID)
	if err != nil {
		return summary, fmt.Errorf("summarize rejections: %w", err)
	}
	defer reasonRows.Close()
	for reasonRows.Next() {
		var reason string
		var count int
		if err := reasonRows.Scan(&reason, &count); err != nil {
			return summary, fmt.Errorf("scan rejection row: %w", err)
		}
		summary.ByReason[reason] = count
	}
	if err := reasonRows.Err(); err != nil {
		return summary, fmt.Errorf("summarize rejections: %w", err)
	}

	return summary, nil
}
