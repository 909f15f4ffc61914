package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"regbet/internal/config"
)

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database under the output
// root's log directory and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	logDir := cfg.LogDir()
	if logDir == "" {
		return nil, fmt.Errorf("output root not configured")
	}
	return OpenPath(filepath.Join(logDir, "regbet.db"))
}

// OpenPath opens a manifest database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts a run row at batch start.
func (s *Store) BeginRun(ctx context.Context, runID, inputDir, atlas, outputDir string, overwrite bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, input_dir, atlas, output_dir, overwrite)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		time.Now().UTC().Format(time.RFC3339Nano),
		inputDir,
		atlas,
		outputDir,
		boolToInt(overwrite),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the run row with its final counts.
func (s *Store) FinishRun(ctx context.Context, runID string, total, completed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, total = ?, completed = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		total,
		completed,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordCase appends one case outcome to the run.
func (s *Store) RecordCase(ctx context.Context, runID, name, sourcePath, outcome, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cases (run_id, name, source_path, outcome, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		name,
		sourcePath,
		outcome,
		detail,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, started_at, finished_at, input_dir, atlas, output_dir, overwrite, total, completed
         FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt sql.NullString
			overwrite  int
		)
		if err := rows.Scan(&run.ID, &run.RunID, &startedAt, &finishedAt, &run.InputDir,
			&run.Atlas, &run.OutputDir, &overwrite, &run.Total, &run.Completed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Overwrite = overwrite != 0
		run.StartedAt = parseTimestamp(startedAt)
		if finishedAt.Valid {
			ts := parseTimestamp(finishedAt.String)
			run.FinishedAt = &ts
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CasesForRun returns the case rows of one run in insertion order.
func (s *Store) CasesForRun(ctx context.Context, runID string) ([]CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, name, source_path, outcome, detail, created_at
         FROM cases WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var records []CaseRecord
	for rows.Next() {
		var (
			rec       CaseRecord
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Name, &rec.SourcePath,
			&rec.Outcome, &rec.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
