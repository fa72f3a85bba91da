package repository

import (
	"context"
	"database/sql"
	"fmt"

	"audiovault"
	"audiovault/internal/models"
	"audiovault/internal/repository/db"
)

type UserSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewUserSQL(conn *sql.DB, dialect db.Dialect) *UserSQL {
	return &UserSQL{db: conn, dialect: dialect}
}

// Ensure implementation of UserRepo at compile time.
var _ UserRepo = (*UserSQL)(nil)

const (
	insertUserSQL           = `INSERT INTO users (id, username, password_hash, is_admin) VALUES (?, ?, ?, ?)`
	countUsernameSQL        = `SELECT COUNT(*) FROM users WHERE username = ?`
	selectUserByIDSQL       = `SELECT id, username, password_hash, is_admin FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, is_admin FROM users WHERE username = ?`
	listUsersSQL            = `SELECT id, username, password_hash, is_admin FROM users ORDER BY username ASC`
	countUserByIDSQL        = `SELECT COUNT(*) FROM users WHERE id = ?`
)

var errUsernameTaken = audiovault.E(audiovault.KindValidation, "username already exists")

// Create inserts a user. A taken username is a Validation error.
func (r *UserSQL) Create(ctx context.Context, u models.User) error {
	var taken int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(countUsernameSQL), u.Username).Scan(&taken); err != nil {
		return fmt.Errorf("check username %q: %w", u.Username, err)
	}
	if taken > 0 {
		return errUsernameTaken
	}

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertUserSQL), u.ID, u.Username, u.PasswordHash, u.IsAdmin)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return errUsernameTaken
		}
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

func (r *UserSQL) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserByIDSQL), id))
	if err != nil {
		return models.User{}, notFoundOr(err, "user")
	}
	return u, nil
}

func (r *UserSQL) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserByUsernameSQL), username))
	if err != nil {
		return models.User{}, notFoundOr(err, "user")
	}
	return u, nil
}

func (r *UserSQL) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (r *UserSQL) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(countUserByIDSQL), id).Scan(&n); err != nil {
		return false, fmt.Errorf("count user %q: %w", id, err)
	}
	return n > 0, nil
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin); err != nil {
		return models.User{}, err
	}
	return u, nil
}
