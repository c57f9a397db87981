package repository

import (
	"context"
	"database/sql"
	"time"
)

type flavor int

const (
	flavorMySQL flavor = iota
	flavorSQLite
)

// Store is the SQL-backed implementation of every repository interface,
// shared between the MySQL and SQLite backends. Dialect differences are
// confined to the small helpers below and the per-backend DDL.
type Store struct {
	db     *sql.DB
	flavor flavor
}

// insertIgnore returns the dialect's insert-skipping-conflicts verb.
func (s *Store) insertIgnore() string {
	if s.flavor == flavorSQLite {
		return "INSERT OR IGNORE INTO"
	}
	return "INSERT IGNORE INTO"
}

// rowLock returns the locking suffix for the qualifying-subset select.
// SQLite serializes writers on its own, so no suffix there.
func (s *Store) rowLock() string {
	if s.flavor == flavorMySQL {
		return " FOR UPDATE"
	}
	return ""
}

// monthExpr returns the dialect expression rendering created_at as YYYY-MM.
func (s *Store) monthExpr() string {
	if s.flavor == flavorSQLite {
		return "strftime('%Y-%m', created_at)"
	}
	return "DATE_FORMAT(created_at, '%Y-%m')"
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

const dbTimeLayout = "2006-01-02 15:04:05"

// fmtTime serializes a timestamp the same way on both backends, so scans
// never depend on driver-specific time handling.
func fmtTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// fmtTimePtr serializes an optional timestamp, nil staying NULL.
func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

// parseDBTime reads a timestamp column written by fmtTime or a date-only
// column. Returns nil on NULL or unparseable text.
func parseDBTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	for _, layout := range []string{dbTimeLayout, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// Interface conformance for the shared store.
var (
	_ ReturnsStore    = (*Store)(nil)
	_ ReconcileStore  = (*Store)(nil)
	_ SubmissionStore = (*Store)(nil)
	_ CatalogStore    = (*Store)(nil)
	_ DashboardStore  = (*Store)(nil)
)
