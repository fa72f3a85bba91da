package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "postgres"
)

// Options controls how the pool is opened.
type Options struct {
	Driver       string // "sqlite" or "postgres"
	DSN          string
	MaxOpenConns int // 0 picks a driver default
	MaxIdleConns int
}

// InitDB opens the pool, applies driver pragmas and ensures tables exist.
func InitDB(opts Options) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	dsn := opts.DSN
	if dialect.IsSQLite() {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	maxOpen, maxIdle := opts.MaxOpenConns, opts.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = dialect.defaultMaxOpenConns()
	}
	if maxIdle <= 0 {
		maxIdle = maxOpen
	}
	// The bounded pool is the backpressure point: excess requests queue for a connection.
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := ensureSchema(db, dialect); err != nil {
		_ = db.Close()
		return nil, Dialect{}, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, Dialect{}, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	return db, dialect, nil
}

// sqlitePragmas are applied by the driver to every pooled connection, not just the first.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// sqliteDSN appends the connection pragmas and makes write transactions
// BEGIN IMMEDIATE, so concurrent writers queue on busy_timeout instead of
// failing a read-to-write upgrade.
func sqliteDSN(dsn string) string {
	params := make([]string, 0, len(sqlitePragmas)+1)
	for _, p := range sqlitePragmas {
		params = append(params, "_pragma="+p)
	}
	params = append(params, "_txlock=immediate")

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func ensureSchema(db *sql.DB, d Dialect) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range d.schema() {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
