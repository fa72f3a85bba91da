package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"audiovault"
	"audiovault/internal/models"

	"github.com/google/uuid"
)

const (
	// Touching the parent row serializes concurrent appends to the same playlist:
	// a row lock on Postgres, the write lock on SQLite.
	lockPlaylistSQL = `UPDATE playlists SET name = name WHERE id = ?`
	maxPositionSQL  = `SELECT COALESCE(MAX(position), 0) FROM playlist_items WHERE playlist_id = ?`
	insertItemSQL   = `INSERT INTO playlist_items (id, playlist_id, audio_id, position) VALUES (?, ?, ?, ?)`
)

var (
	errNegativePosition = audiovault.E(audiovault.KindValidation, "position must be non-negative")
	errPositionRange    = audiovault.Ef(audiovault.KindValidation, "position must not exceed %d", math.MaxInt32)
)

// AddItem inserts an entry. A nil position takes max+1 (1 for an empty playlist);
// an explicit one is stored verbatim, duplicates included.
func (r *PlaylistSQL) AddItem(ctx context.Context, playlistID, audioID string, position *int) (models.PlaylistItem, error) {
	if position != nil {
		switch {
		case *position < 0:
			return models.PlaylistItem{}, errNegativePosition
		case *position > math.MaxInt32:
			return models.PlaylistItem{}, errPositionRange
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PlaylistItem{}, fmt.Errorf("begin add item: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.lockPlaylist(ctx, tx, playlistID); err != nil {
		return models.PlaylistItem{}, err
	}

	var n int
	if err := tx.QueryRowContext(ctx, r.dialect.Rebind(countAudioByIDSQL), audioID).Scan(&n); err != nil {
		return models.PlaylistItem{}, fmt.Errorf("check audio %q: %w", audioID, err)
	}
	if n == 0 {
		return models.PlaylistItem{}, audiovault.E(audiovault.KindNotFound, "audio file not found")
	}

	item := models.PlaylistItem{
		ID:         uuid.NewString(),
		PlaylistID: playlistID,
		AudioID:    audioID,
	}
	if position != nil {
		item.Position = *position
	} else {
		var top int
		if err := tx.QueryRowContext(ctx, r.dialect.Rebind(maxPositionSQL), playlistID).Scan(&top); err != nil {
			return models.PlaylistItem{}, fmt.Errorf("max position of %q: %w", playlistID, err)
		}
		item.Position = top + 1
	}

	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(insertItemSQL),
		item.ID, item.PlaylistID, item.AudioID, item.Position); err != nil {
		return models.PlaylistItem{}, fmt.Errorf("insert item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.PlaylistItem{}, fmt.Errorf("commit add item: %w", err)
	}
	return item, nil
}

func (r *PlaylistSQL) lockPlaylist(ctx context.Context, tx *sql.Tx, playlistID string) error {
	res, err := tx.ExecContext(ctx, r.dialect.Rebind(lockPlaylistSQL), playlistID)
	if err != nil {
		return fmt.Errorf("lock playlist %q: %w", playlistID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("lock playlist %q: %w", playlistID, err)
	}
	if n == 0 {
		return audiovault.E(audiovault.KindNotFound, "playlist not found")
	}
	return nil
}
