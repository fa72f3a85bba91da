package service

import (
	"context"

	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/repository"

	"go.uber.org/multierr"
)

// CascadingDeleter commits row removal first and then cleans blobs best-effort.
// Blob failures are logged and counted, never returned: the database is the source
// of truth and the sweeper collects leftovers.
type CascadingDeleter struct {
	cascade repository.Cascade
	blobs   BlobStore
	log     *logger.Logger
}

func NewCascadingDeleter(cascade repository.Cascade, blobs BlobStore, log *logger.Logger) *CascadingDeleter {
	return &CascadingDeleter{cascade: cascade, blobs: blobs, log: log}
}

// DeleteUser removes the user's rows in one transaction, then their blobs and folder.
func (d *CascadingDeleter) DeleteUser(ctx context.Context, userID string) (models.DeletionSummary, error) {
	sum, refs, err := d.cascade.DeleteUser(ctx, userID)
	if err != nil {
		return models.DeletionSummary{}, err
	}

	removed, berr := d.blobs.RemoveAll(refs)
	sum.BlobsDeleted = removed
	berr = multierr.Append(berr, d.blobs.RemoveFolder(userID))
	if berr != nil {
		sum.BlobDeleteErrors = len(multierr.Errors(berr))
		d.log.Warnw("user_delete_blob_cleanup_failed", "user_id", userID, "errors", sum.BlobDeleteErrors, "err", berr)
	}
	return sum, nil
}

func (d *CascadingDeleter) DeletePlaylist(ctx context.Context, playlistID string) (models.DeletionSummary, error) {
	return d.cascade.DeletePlaylist(ctx, playlistID)
}

// DeleteAudio removes the audio row and the items referencing it, then the blob.
func (d *CascadingDeleter) DeleteAudio(ctx context.Context, a models.AudioFile) (models.DeletionSummary, error) {
	sum, err := d.cascade.DeleteAudio(ctx, a.ID)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	if err := d.blobs.Remove(a.Ref()); err != nil {
		sum.BlobDeleteErrors = 1
		d.log.Warnw("audio_delete_blob_cleanup_failed", "audio_id", a.ID, "err", err)
		return sum, nil
	}
	sum.BlobsDeleted = 1
	return sum, nil
}
