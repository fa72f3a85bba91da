package models

import "time"

// Accepted declared media types for uploads.
const (
	MimeMPEG = "audio/mpeg"
	MimeWAV  = "audio/wav"
	MimeFLAC = "audio/flac"
	MimeAAC  = "audio/aac"
	MimeOGG  = "audio/ogg"
)

// AllowedMimeTypes is the upload whitelist.
var AllowedMimeTypes = []string{MimeMPEG, MimeWAV, MimeFLAC, MimeAAC, MimeOGG}

// AudioFile is an uploaded blob's metadata. UserFolder names the owner's storage folder,
// relative to the upload root.
type AudioFile struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	MimeType   string    `json:"mime_type"`
	UserFolder string    `json:"-"`
}

// BlobRef is the minimum needed to rebuild a blob path: {folder}/{id}_{filename}.
type BlobRef struct {
	AudioID  string
	Folder   string
	Filename string
}

// Ref returns the blob reference for the file.
func (a AudioFile) Ref() BlobRef {
	return BlobRef{AudioID: a.ID, Folder: a.UserFolder, Filename: a.Filename}
}
