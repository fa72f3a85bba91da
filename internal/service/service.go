package service

import (
	"context"
	"io"
	"time"

	"audiovault/internal/blobstore"
	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/repository"
)

// Authorization issues credentials and resolves them back to a subject.
type Authorization interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (policy.Subject, error)
}

type Audio interface {
	Upload(ctx context.Context, sub policy.Subject, in UploadInput) (models.AudioFile, error)
	// Open returns the file metadata and its content. The caller closes the reader.
	Open(ctx context.Context, sub policy.Subject, id string) (models.AudioFile, io.ReadCloser, int64, error)
	ListByUser(ctx context.Context, sub policy.Subject, userID string) ([]models.AudioFile, error)
	Delete(ctx context.Context, sub policy.Subject, id string) (models.DeletionSummary, error)
}

type Playlists interface {
	Create(ctx context.Context, sub policy.Subject, name string) (models.Playlist, error)
	// List returns the caller's playlists, or every playlist for an admin.
	List(ctx context.Context, sub policy.Subject) ([]models.Playlist, error)
	Get(ctx context.Context, sub policy.Subject, id string) (models.PlaylistWithItems, error)
	Delete(ctx context.Context, sub policy.Subject, id string) (models.DeletionSummary, error)
	AddItem(ctx context.Context, sub policy.Subject, playlistID string, in AddItemInput) (models.PlaylistItem, error)
	RemoveItem(ctx context.Context, sub policy.Subject, playlistID, itemID string) error
}

type Users interface {
	Create(ctx context.Context, sub policy.Subject, in CreateUserInput) (models.User, error)
	List(ctx context.Context, sub policy.Subject) ([]models.User, error)
	Delete(ctx context.Context, sub policy.Subject, id string) (models.DeletionSummary, error)
}

// Seeder creates bootstrap users from a YAML file, skipping existing usernames.
type Seeder interface {
	Seed(ctx context.Context, path string) (int, error)
}

// EventLog exposes the append-only library log with filtering access.
type EventLog interface {
	List(ctx context.Context, sub policy.Subject, f LogFilter) ([]models.LibraryEvent, error)
}

// Monitoring exposes read-only library counters.
type Monitoring interface {
	Stats(ctx context.Context, sub policy.Subject) (models.LibraryStats, error)
}

// Sweeper removes blobs and folders the database no longer knows about.
// Stop Run via context cancellation.
type Sweeper interface {
	Run(ctx context.Context, interval time.Duration)
	SweepOnce(ctx context.Context) (models.SweepReport, error)
}

// BlobStore is the subset of blobstore.Store the services use.
type BlobStore interface {
	EnsureFolder(folder string) error
	Save(ref models.BlobRef, r io.Reader) (int64, error)
	Open(ref models.BlobRef) (io.ReadCloser, int64, error)
	Remove(ref models.BlobRef) error
	RemoveAll(refs []models.BlobRef) (int, error)
	RemoveFolder(folder string) error
	RemoveName(folder, name string) error
	Folders() ([]blobstore.Folder, error)
	Usage() (files, bytes int64, err error)
}

var _ BlobStore = (*blobstore.Store)(nil)

// Options carries the settings services need from configuration.
type Options struct {
	Secret        string
	TokenTTL      time.Duration
	VerifyContent bool
	SweepGrace    time.Duration
}

type Service struct {
	Authorization
	Audio
	Playlists
	Users
	Seeder
	EventLog
	Monitoring
	Sweeper
}

// NewService wires the repository layer and blob store into concrete services.
func NewService(repos *repository.Repository, blobs BlobStore, opts Options, log *logger.Logger) *Service {
	events := newRecorder(repos.Events, log)
	deleter := NewCascadingDeleter(repos.Cascade, blobs, log)
	users := NewUserService(repos.Users, blobs, deleter, events, log)
	return &Service{
		Authorization: NewAuthService(repos.Users, opts.Secret, opts.TokenTTL),
		Audio:         NewAudioService(repos.Audio, blobs, deleter, events, opts.VerifyContent, log),
		Playlists:     NewPlaylistService(repos.Playlists, deleter, events),
		Users:         users,
		Seeder:        users,
		EventLog:      NewEventLogService(repos.Events),
		Monitoring:    NewMonitoringService(repos.Stats, blobs),
		Sweeper:       NewSweeperService(repos.Users, repos.Audio, blobs, opts.SweepGrace, log),
	}
}
