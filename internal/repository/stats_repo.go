package repository

import (
	"context"
	"database/sql"
	"fmt"

	"audiovault/internal/models"
	"audiovault/internal/repository/db"
)

type StatsSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewStatsSQL(conn *sql.DB, dialect db.Dialect) *StatsSQL {
	return &StatsSQL{db: conn, dialect: dialect}
}

var _ StatsRepo = (*StatsSQL)(nil)

const countsSQL = `SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM audio_files),
	(SELECT COUNT(*) FROM playlists),
	(SELECT COUNT(*) FROM playlist_items)`

// Counts reads row counts of every library table in one statement.
func (r *StatsSQL) Counts(ctx context.Context) (models.LibraryStats, error) {
	var s models.LibraryStats
	err := r.db.QueryRowContext(ctx, countsSQL).Scan(&s.Users, &s.AudioFiles, &s.Playlists, &s.PlaylistItems)
	if err != nil {
		return models.LibraryStats{}, fmt.Errorf("count library: %w", err)
	}
	return s, nil
}
