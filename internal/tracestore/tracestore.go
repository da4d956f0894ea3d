// Package tracestore is a debug trace sink: when -debug-dir is set (§6),
// the driver records one row per compiled prefix — unused preference
// indices, size counters, and whether it compiled (with the error
// message if not) — into a sqlite3 file, the same storage the teacher
// uses for its own per-AS annotations in readers.go's
// SqliteReader/ReadSqlite. The driver leaves Row.PGNodes at zero, and no
// ordering decisions are recorded.
package tracestore

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a single sqlite3-backed trace sink. Not safe for concurrent
// writes from multiple goroutines; callers serialize through one Store
// (the driver's joiner goroutine, not the per-prefix workers).
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) trace.db under dir and ensures the trace
// table exists.
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, "trace.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("tracestore: open %s: %w", path, err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS prefix_trace (
		predicate_label  TEXT,
		pg_nodes         INTEGER,
		unused_prefs     TEXT,
		size_raw         INTEGER,
		size_smart       INTEGER,
		ok               INTEGER,
		error_message    TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("tracestore: create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying sqlite3 handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Row is one prefix's compile trace.
type Row struct {
	PredicateLabel string
	PGNodes        int
	UnusedPrefs    []int
	SizeRaw        int
	SizeSmart      int
	OK             bool
	ErrorMessage   string
}

// Record inserts one trace row.
func (s *Store) Record(r Row) error {
	unused := fmt.Sprintf("%v", r.UnusedPrefs)
	_, err := s.db.Exec(
		`INSERT INTO prefix_trace (predicate_label, pg_nodes, unused_prefs, size_raw, size_smart, ok, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.PredicateLabel, r.PGNodes, unused, r.SizeRaw, r.SizeSmart, boolToInt(r.OK), r.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("tracestore: insert: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
