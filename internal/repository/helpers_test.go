package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"audiovault/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

// sqlitePool is large enough that concurrent transactions run on separate connections.
const sqlitePool = 8

// openSQLite returns a fresh on-disk database with the schema applied.
func openSQLite(t *testing.T) (*sql.DB, *Repository) {
	t.Helper()
	conn, dialect, err := db.InitDB(db.Options{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "library.db"),
		MaxOpenConns: sqlitePool,
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, NewRepository(conn, dialect)
}

func countRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}
