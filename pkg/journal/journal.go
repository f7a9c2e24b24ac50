// Package journal records Egg program runs in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded run.
type Entry struct {
	ID           int64
	Started      time.Time
	SourcePath   string
	Source       string
	Result       string
	Output       []string
	ErrorKind    string
	ErrorMessage string
	Duration     time.Duration
}

// Failed reports whether the run ended in an error.
func (e Entry) Failed() bool {
	return e.ErrorKind != "" || e.ErrorMessage != ""
}

// Journal is an open run journal.
type Journal struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at    TEXT    NOT NULL,
	source_path   TEXT    NOT NULL DEFAULT '',
	source        TEXT    NOT NULL,
	result        TEXT    NOT NULL DEFAULT '',
	output        TEXT    NOT NULL DEFAULT '',
	error_kind    TEXT    NOT NULL DEFAULT '',
	error_message TEXT    NOT NULL DEFAULT '',
	duration_ns   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal: empty path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: migrate %s: %w", path, err)
	}
	return &Journal{db: db, path: path}, nil
}

// Path returns the database file backing the journal.
func (j *Journal) Path() string {
	return j.path
}

// Close releases the database handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends entry and returns its id.
func (j *Journal) Record(ctx context.Context, entry Entry) (int64, error) {
	if entry.Started.IsZero() {
		entry.Started = time.Now()
	}
	result, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, source_path, source, result, output, error_kind, error_message, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Started.UTC().Format(time.RFC3339Nano),
		entry.SourcePath,
		entry.Source,
		entry.Result,
		strings.Join(entry.Output, "\n"),
		entry.ErrorKind,
		entry.ErrorMessage,
		int64(entry.Duration),
	)
	if err != nil {
		return 0, fmt.Errorf("journal: record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal: record: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns
// every entry.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, started_at, source_path, source, result, output, error_kind, error_message, duration_ns
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry    Entry
			started  string
			output   string
			duration int64
		)
		if err := rows.Scan(&entry.ID, &started, &entry.SourcePath, &entry.Source, &entry.Result,
			&output, &entry.ErrorKind, &entry.ErrorMessage, &duration); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		entry.Started, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("journal: entry %d: bad timestamp %q: %w", entry.ID, started, err)
		}
		if output != "" {
			entry.Output = strings.Split(output, "\n")
		}
		entry.Duration = time.Duration(duration)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	return entries, nil
}
