package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"audiovault"
	"audiovault/internal/models"
	"audiovault/internal/repository/db"
)

type UserRepo interface {
	Create(ctx context.Context, u models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type AudioRepo interface {
	Create(ctx context.Context, a models.AudioFile) error
	Get(ctx context.Context, id string) (models.AudioFile, error)
	ListByUser(ctx context.Context, userID string) ([]models.AudioFile, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type PlaylistRepo interface {
	Create(ctx context.Context, p models.Playlist) error
	Get(ctx context.Context, id string) (models.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]models.Playlist, error)
	ListAll(ctx context.Context) ([]models.Playlist, error)
	Items(ctx context.Context, playlistID string) ([]models.PlaylistAudioItem, error)
	// AddItem allocates a position (when position is nil) and inserts in one transaction.
	AddItem(ctx context.Context, playlistID, audioID string, position *int) (models.PlaylistItem, error)
	RemoveItem(ctx context.Context, playlistID, itemID string) error
}

// Cascade runs multi-table deletes as single units of work.
type Cascade interface {
	DeleteUser(ctx context.Context, userID string) (models.DeletionSummary, []models.BlobRef, error)
	DeletePlaylist(ctx context.Context, playlistID string) (models.DeletionSummary, error)
	DeleteAudio(ctx context.Context, audioID string) (models.DeletionSummary, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.LibraryEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.LibraryEvent, error)
}

type StatsRepo interface {
	Counts(ctx context.Context) (models.LibraryStats, error)
}

type Repository struct {
	Users     UserRepo
	Audio     AudioRepo
	Playlists PlaylistRepo
	Cascade   Cascade
	Events    EventRepo
	Stats     StatsRepo
}

func NewRepository(conn *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{
		Users:     NewUserSQL(conn, dialect),
		Audio:     NewAudioSQL(conn, dialect),
		Playlists: NewPlaylistSQL(conn, dialect),
		Cascade:   NewCascadeSQL(conn, dialect),
		Events:    NewEventSQL(conn, dialect),
		Stats:     NewStatsSQL(conn, dialect),
	}
}

// notFoundOr converts sql.ErrNoRows into a NotFound error and wraps anything else.
func notFoundOr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return audiovault.E(audiovault.KindNotFound, what+" not found")
	}
	return audiovault.Wrap(audiovault.KindInternal, "select "+what, err)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
