package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Dialect hides the placeholder and schema differences between SQLite and Postgres.
// Queries are written with '?' placeholders and rebound for Postgres.
type Dialect struct {
	name string
}

var (
	SQLite   = Dialect{name: sqliteDriverName}
	Postgres = Dialect{name: postgresDriverName}
)

// DialectFor resolves a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case sqliteDriverName, "":
		return SQLite, nil
	case postgresDriverName:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported db driver %q", driver)
	}
}

func (d Dialect) Name() string { return d.name }

func (d Dialect) IsSQLite() bool { return d.name != postgresDriverName }

func (d Dialect) driverName() string {
	if d.IsSQLite() {
		return sqliteDriverName
	}
	return postgresDriverName
}

func (d Dialect) defaultMaxOpenConns() int {
	if d.IsSQLite() {
		return 1 // SQLite is not great with many writers
	}
	return 10
}

// Rebind rewrites '?' placeholders to $N for Postgres. Quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d.IsSQLite() || !strings.Contains(query, "?") {
		return query
	}
	var (
		b       strings.Builder
		n       int
		inQuote bool
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sqliteConstraintUnique is SQLITE_CONSTRAINT_UNIQUE.
const sqliteConstraintUnique = 2067

// postgresUniqueViolation is SQLSTATE unique_violation.
const postgresUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint failure from either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == postgresUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqliteConstraintUnique {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
