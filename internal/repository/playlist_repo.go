package repository

import (
	"context"
	"database/sql"
	"fmt"

	"audiovault"
	"audiovault/internal/models"
	"audiovault/internal/repository/db"
)

type PlaylistSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewPlaylistSQL(conn *sql.DB, dialect db.Dialect) *PlaylistSQL {
	return &PlaylistSQL{db: conn, dialect: dialect}
}

var _ PlaylistRepo = (*PlaylistSQL)(nil)

const (
	insertPlaylistSQL   = `INSERT INTO playlists (id, name, user_id, created_at) VALUES (?, ?, ?, ?)`
	selectPlaylistSQL   = `SELECT id, name, user_id, created_at FROM playlists WHERE id = ?`
	listAllPlaylistsSQL = `SELECT id, name, user_id, created_at FROM playlists ORDER BY created_at DESC, id DESC`

	listPlaylistsByUserSQL = `SELECT id, name, user_id, created_at FROM playlists
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	listPlaylistItemsSQL = `SELECT i.id, i.audio_id, i.position, a.filename, a.mime_type
		FROM playlist_items i
		JOIN audio_files a ON a.id = i.audio_id
		WHERE i.playlist_id = ?
		ORDER BY i.position ASC, i.id ASC`

	deletePlaylistItemSQL = `DELETE FROM playlist_items WHERE id = ? AND playlist_id = ?`
)

func (r *PlaylistSQL) Create(ctx context.Context, p models.Playlist) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(insertPlaylistSQL), p.ID, p.Name, p.UserID, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert playlist %q: %w", p.ID, err)
	}
	return nil
}

func (r *PlaylistSQL) Get(ctx context.Context, id string) (models.Playlist, error) {
	p, err := scanPlaylist(r.db.QueryRowContext(ctx, r.dialect.Rebind(selectPlaylistSQL), id))
	if err != nil {
		return models.Playlist{}, notFoundOr(err, "playlist")
	}
	return p, nil
}

func (r *PlaylistSQL) ListByUser(ctx context.Context, userID string) ([]models.Playlist, error) {
	return r.list(ctx, r.dialect.Rebind(listPlaylistsByUserSQL), userID)
}

func (r *PlaylistSQL) ListAll(ctx context.Context) ([]models.Playlist, error) {
	return r.list(ctx, listAllPlaylistsSQL)
}

func (r *PlaylistSQL) list(ctx context.Context, query string, args ...any) ([]models.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	out := make([]models.Playlist, 0, 16)
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return out, nil
}

// Items returns the playlist's entries joined with audio metadata, ordered by position.
func (r *PlaylistSQL) Items(ctx context.Context, playlistID string) ([]models.PlaylistAudioItem, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listPlaylistItemsSQL), playlistID)
	if err != nil {
		return nil, fmt.Errorf("list items of %q: %w", playlistID, err)
	}
	defer rows.Close()

	out := make([]models.PlaylistAudioItem, 0, 32)
	for rows.Next() {
		var it models.PlaylistAudioItem
		if err := rows.Scan(&it.ID, &it.AudioID, &it.Position, &it.Filename, &it.MimeType); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

// RemoveItem deletes one entry. The item must belong to the playlist.
func (r *PlaylistSQL) RemoveItem(ctx context.Context, playlistID, itemID string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deletePlaylistItemSQL), itemID, playlistID)
	if err != nil {
		return fmt.Errorf("delete item %q: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %q: %w", itemID, err)
	}
	if n == 0 {
		return audiovault.E(audiovault.KindNotFound, "playlist item not found")
	}
	return nil
}

func scanPlaylist(row rowScanner) (models.Playlist, error) {
	var p models.Playlist
	if err := row.Scan(&p.ID, &p.Name, &p.UserID, &p.CreatedAt); err != nil {
		return models.Playlist{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}
