// Package store is the gateway to the two SQLite stores: statement
// batches with an integrity-bypass policy, read queries, bulk appends
// and query-to-Frame materialization.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// Statement is one parameterized write statement.
type Statement struct {
	SQL  string
	Args []any
}

// Open opens (creating if needed) a SQLite database and applies the
// given schema.
func Open(dbPath string, schema string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Push executes a batch of statements in one transaction and commits
// once at the end. A constraint violation is skipped when
// bypassIntegrity is set; any other failure rolls the batch back.
func (s *Store) Push(stmts []Statement, bypassIntegrity bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt.SQL, stmt.Args...); err != nil {
			if bypassIntegrity && IsConstraint(err) {
				continue
			}
			return fmt.Errorf("executing %q: %w", stmt.SQL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Query runs a read-only statement and returns the raw row tuples.
func (s *Store) Query(query string, args ...any) ([][]any, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out [][]any
	for rows.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Mode selects BulkAppend's behavior when the target table already
// holds rows.
type Mode int

const (
	ModeFail Mode = iota
	ModeReplace
	ModeAppend
)

// BulkAppend writes a whole frame into a table. ModeReplace clears the
// table first; ModeFail errors if the table is not empty.
func (s *Store) BulkAppend(table string, f *Frame, mode Mode) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	switch mode {
	case ModeReplace:
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	case ModeFail:
		var n int
		if err := tx.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
			return fmt.Errorf("checking %s: %w", table, err)
		}
		if n > 0 {
			return fmt.Errorf("table %s is not empty", table)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(f.cols, ", "), placeholders)
	for i := 0; i < f.Len(); i++ {
		if _, err := tx.Exec(insert, f.Row(i)...); err != nil {
			return fmt.Errorf("appending to %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// ToFrame materializes a read query as an in-memory column table.
func (s *Store) ToFrame(query string, args ...any) (*Frame, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	f := &Frame{cols: cols}
	for rows.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		f.rows = append(f.rows, row)
	}
	return f, rows.Err()
}

// IsConstraint reports whether err is a SQLite integrity violation
// (duplicate key and friends).
func IsConstraint(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}

// IsStorage reports whether err originated in the SQLite layer at all.
// The orchestrator treats these as recoverable; anything else is a
// data-shape or transport problem and propagates.
func IsStorage(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr)
}
