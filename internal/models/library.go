package models

import "time"

// Library event types.
const (
	EventUpload         = "UPLOAD"
	EventAudioDelete    = "AUDIO_DELETE"
	EventPlaylistCreate = "PLAYLIST_CREATE"
	EventPlaylistDelete = "PLAYLIST_DELETE"
	EventItemAdd        = "ITEM_ADD"
	EventItemRemove     = "ITEM_REMOVE"
	EventUserCreate     = "USER_CREATE"
	EventUserDelete     = "USER_DELETE"
)

// LibraryEvent is a single audit log entry.
type LibraryEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	ActorID     string    `json:"actor_id"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

// LibraryStats is a point-in-time snapshot of the library.
type LibraryStats struct {
	Users         int64     `json:"users"`
	AudioFiles    int64     `json:"audio_files"`
	Playlists     int64     `json:"playlists"`
	PlaylistItems int64     `json:"playlist_items"`
	BlobBytes     int64     `json:"blob_bytes"`
	BlobFiles     int64     `json:"blob_files"`
	TakenAt       time.Time `json:"taken_at"`
}

// DeletionSummary reports what a cascading delete removed.
type DeletionSummary struct {
	UserID             string `json:"user_id,omitempty"`
	PlaylistID         string `json:"playlist_id,omitempty"`
	AudioID            string `json:"audio_id,omitempty"`
	ReferencingItems   int64  `json:"referencing_items"`
	AudioFiles         int64  `json:"audio_files"`
	OwnedPlaylistItems int64  `json:"owned_playlist_items"`
	Playlists          int64  `json:"playlists"`
	Users              int64  `json:"users"`
	BlobsDeleted       int    `json:"blobs_deleted"`
	BlobDeleteErrors   int    `json:"blob_delete_errors"`
}

// SweepReport summarizes one orphan blob sweep.
type SweepReport struct {
	ScannedFiles   int `json:"scanned_files"`
	RemovedFiles   int `json:"removed_files"`
	RemovedFolders int `json:"removed_folders"`
	Errors         int `json:"errors"`
}
