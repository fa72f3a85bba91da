package models

import "time"

type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PlaylistItem struct {
	ID         string `json:"id"`
	PlaylistID string `json:"playlist_id"`
	AudioID    string `json:"audio_id"`
	Position   int    `json:"position"`
}

// PlaylistAudioItem is an item joined with its audio metadata.
type PlaylistAudioItem struct {
	ID       string `json:"id"`
	AudioID  string `json:"audio_id"`
	Position int    `json:"position"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

// PlaylistWithItems nests items ordered by position.
type PlaylistWithItems struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	UserID    string              `json:"user_id"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []PlaylistAudioItem `json:"items"`
}
