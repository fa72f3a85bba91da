package repository

import (
	"context"
	"database/sql"

	"audiovault/internal/models"
	"audiovault/internal/repository/db"
)

// Step names. DeletionSummary fields are filled from them.
const (
	StepCollectAudio     = "collect_audio"
	StepDeleteAudioRefs  = "delete_items_referencing_audio"
	StepDeleteAudio      = "delete_audio"
	StepCollectPlaylists = "collect_playlists"
	StepDeleteOwnedItems = "delete_items_of_playlists"
	StepDeletePlaylists  = "delete_playlists"
	StepDeleteUser       = "delete_user"
)

const (
	selectUserAudioSQL       = `SELECT id, user_folder, filename FROM audio_files WHERE user_id = ?`
	selectUserPlaylistsSQL   = `SELECT id FROM playlists WHERE user_id = ?`
	deleteUserAudioSQL       = `DELETE FROM audio_files WHERE user_id = ?`
	deleteUserPlaylistsSQL   = `DELETE FROM playlists WHERE user_id = ?`
	deleteUserSQL            = `DELETE FROM users WHERE id = ?`
	deleteItemsOfPlaylistSQL = `DELETE FROM playlist_items WHERE playlist_id = ?`
	deletePlaylistSQL        = `DELETE FROM playlists WHERE id = ?`
	deleteItemsOfAudioSQL    = `DELETE FROM playlist_items WHERE audio_id = ?`
	deleteAudioSQL           = `DELETE FROM audio_files WHERE id = ?`

	deleteItemsOfUserAudioSQL = `DELETE FROM playlist_items
		WHERE audio_id IN (SELECT id FROM audio_files WHERE user_id = ?)`

	deleteItemsOfUserPlaylistsSQL = `DELETE FROM playlist_items
		WHERE playlist_id IN (SELECT id FROM playlists WHERE user_id = ?)`
)

// UserDeletion removes a user and everything hanging off them: items in any playlist that
// reference their audio, their audio rows, items of their playlists, their playlists,
// then the user row. Blob references of the removed audio are appended to blobs.
func UserDeletion(userID string, blobs *[]models.BlobRef) UnitOfWork {
	return UnitOfWork{
		Name: "delete user",
		Steps: []Step{
			{Name: StepCollectAudio, Query: selectUserAudioSQL, Args: []any{userID}, Collect: collectBlobRefs(blobs)},
			{Name: StepDeleteAudioRefs, Query: deleteItemsOfUserAudioSQL, Args: []any{userID}},
			{Name: StepDeleteAudio, Query: deleteUserAudioSQL, Args: []any{userID}},
			{Name: StepCollectPlaylists, Query: selectUserPlaylistsSQL, Args: []any{userID}, Collect: countOnly},
			{Name: StepDeleteOwnedItems, Query: deleteItemsOfUserPlaylistsSQL, Args: []any{userID}},
			{Name: StepDeletePlaylists, Query: deleteUserPlaylistsSQL, Args: []any{userID}},
			{Name: StepDeleteUser, Query: deleteUserSQL, Args: []any{userID}, MustAffect: true, NotFound: "user not found"},
		},
	}
}

func collectBlobRefs(dst *[]models.BlobRef) func(scan func(dest ...any) error) error {
	return func(scan func(dest ...any) error) error {
		var ref models.BlobRef
		if err := scan(&ref.AudioID, &ref.Folder, &ref.Filename); err != nil {
			return err
		}
		*dst = append(*dst, ref)
		return nil
	}
}

func countOnly(scan func(dest ...any) error) error {
	var id string
	return scan(&id)
}

// PlaylistDeletion removes a playlist's items, then the playlist.
func PlaylistDeletion(playlistID string) UnitOfWork {
	return UnitOfWork{
		Name: "delete playlist",
		Steps: []Step{
			{Name: StepDeleteOwnedItems, Query: deleteItemsOfPlaylistSQL, Args: []any{playlistID}},
			{Name: StepDeletePlaylists, Query: deletePlaylistSQL, Args: []any{playlistID}, MustAffect: true, NotFound: "playlist not found"},
		},
	}
}

// AudioDeletion removes every item referencing the audio, then the audio row.
func AudioDeletion(audioID string) UnitOfWork {
	return UnitOfWork{
		Name: "delete audio",
		Steps: []Step{
			{Name: StepDeleteAudioRefs, Query: deleteItemsOfAudioSQL, Args: []any{audioID}},
			{Name: StepDeleteAudio, Query: deleteAudioSQL, Args: []any{audioID}, MustAffect: true, NotFound: "audio file not found"},
		},
	}
}

type CascadeSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewCascadeSQL(conn *sql.DB, dialect db.Dialect) *CascadeSQL {
	return &CascadeSQL{db: conn, dialect: dialect}
}

var _ Cascade = (*CascadeSQL)(nil)

// DeleteUser commits the user cascade and returns the blobs the caller should remove.
func (r *CascadeSQL) DeleteUser(ctx context.Context, userID string) (models.DeletionSummary, []models.BlobRef, error) {
	var blobs []models.BlobRef
	counts, err := UserDeletion(userID, &blobs).Run(ctx, r.db, r.dialect)
	if err != nil {
		return models.DeletionSummary{}, nil, err
	}
	sum := counts.summary()
	sum.UserID = userID
	return sum, blobs, nil
}

func (r *CascadeSQL) DeletePlaylist(ctx context.Context, playlistID string) (models.DeletionSummary, error) {
	counts, err := PlaylistDeletion(playlistID).Run(ctx, r.db, r.dialect)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	sum := counts.summary()
	sum.PlaylistID = playlistID
	return sum, nil
}

func (r *CascadeSQL) DeleteAudio(ctx context.Context, audioID string) (models.DeletionSummary, error) {
	counts, err := AudioDeletion(audioID).Run(ctx, r.db, r.dialect)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	sum := counts.summary()
	sum.AudioID = audioID
	return sum, nil
}

func (c Counts) summary() models.DeletionSummary {
	return models.DeletionSummary{
		ReferencingItems:   c[StepDeleteAudioRefs],
		AudioFiles:         c[StepDeleteAudio],
		OwnedPlaylistItems: c[StepDeleteOwnedItems],
		Playlists:          c[StepDeletePlaylists],
		Users:              c[StepDeleteUser],
	}
}
