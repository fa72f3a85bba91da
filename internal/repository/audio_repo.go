package repository

import (
	"context"
	"database/sql"
	"fmt"

	"audiovault/internal/models"
	"audiovault/internal/repository/db"
)

type AudioSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewAudioSQL(conn *sql.DB, dialect db.Dialect) *AudioSQL {
	return &AudioSQL{db: conn, dialect: dialect}
}

var _ AudioRepo = (*AudioSQL)(nil)

const (
	insertAudioSQL = `INSERT INTO audio_files (id, filename, user_id, created_at, mime_type, user_folder)
		VALUES (?, ?, ?, ?, ?, ?)`

	selectAudioSQL = `SELECT id, filename, user_id, created_at, mime_type, user_folder
		FROM audio_files WHERE id = ?`

	listAudioByUserSQL = `SELECT id, filename, user_id, created_at, mime_type, user_folder
		FROM audio_files WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	countAudioByIDSQL = `SELECT COUNT(*) FROM audio_files WHERE id = ?`
)

func (r *AudioSQL) Create(ctx context.Context, a models.AudioFile) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertAudioSQL),
		a.ID, a.Filename, a.UserID, a.CreatedAt.UTC(), a.MimeType, a.UserFolder)
	if err != nil {
		return fmt.Errorf("insert audio %q: %w", a.ID, err)
	}
	return nil
}

func (r *AudioSQL) Get(ctx context.Context, id string) (models.AudioFile, error) {
	a, err := scanAudio(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectAudioSQL), id))
	if err != nil {
		return models.AudioFile{}, notFoundOr(err, "audio file")
	}
	return a, nil
}

// ListByUser returns the user's files newest first.
func (r *AudioSQL) ListByUser(ctx context.Context, userID string) ([]models.AudioFile, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listAudioByUserSQL), userID)
	if err != nil {
		return nil, fmt.Errorf("list audio for %q: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.AudioFile, 0, 32)
	for rows.Next() {
		a, err := scanAudio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audio: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audio: %w", err)
	}
	return out, nil
}

func (r *AudioSQL) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(countAudioByIDSQL), id).Scan(&n); err != nil {
		return false, fmt.Errorf("count audio %q: %w", id, err)
	}
	return n > 0, nil
}

func scanAudio(row rowScanner) (models.AudioFile, error) {
	var a models.AudioFile
	if err := row.Scan(&a.ID, &a.Filename, &a.UserID, &a.CreatedAt, &a.MimeType, &a.UserFolder); err != nil {
		return models.AudioFile{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}
