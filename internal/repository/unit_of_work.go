package repository

import (
	"context"
	"database/sql"
	"fmt"

	"audiovault"
	"audiovault/internal/repository/db"
)

// Step is one statement of a UnitOfWork. With Collect set the statement is a query
// and Collect is called once per row; otherwise it is executed.
type Step struct {
	Name  string
	Query string
	Args  []any

	Collect func(scan func(dest ...any) error) error

	// MustAffect fails the whole unit with NotFound when the step touches no rows.
	MustAffect bool
	NotFound   string
}

// UnitOfWork is an ordered list of steps that commit or roll back together.
type UnitOfWork struct {
	Name  string
	Steps []Step
}

// StepNames lists the steps in execution order.
func (u UnitOfWork) StepNames() []string {
	out := make([]string, len(u.Steps))
	for i, s := range u.Steps {
		out[i] = s.Name
	}
	return out
}

// Counts maps step name to rows affected (or rows collected).
type Counts map[string]int64

// Run executes the unit in a single transaction. Any failing step rolls back every
// earlier one.
func (u UnitOfWork) Run(ctx context.Context, conn *sql.DB, dialect db.Dialect) (Counts, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", u.Name, err)
	}
	defer func() { _ = tx.Rollback() }()

	counts := make(Counts, len(u.Steps))
	for _, s := range u.Steps {
		n, err := s.run(ctx, tx, dialect)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", u.Name, s.Name, err)
		}
		if s.MustAffect && n == 0 {
			return nil, audiovault.E(audiovault.KindNotFound, s.NotFound)
		}
		counts[s.Name] = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", u.Name, err)
	}
	return counts, nil
}

func (s Step) run(ctx context.Context, tx *sql.Tx, dialect db.Dialect) (int64, error) {
	query := dialect.Rebind(s.Query)
	if s.Collect == nil {
		res, err := tx.ExecContext(ctx, query, s.Args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	rows, err := tx.QueryContext(ctx, query, s.Args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	for rows.Next() {
		if err := s.Collect(rows.Scan); err != nil {
			return 0, err
		}
		n++
	}
	return n, rows.Err()
}
