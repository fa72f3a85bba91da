package service

import (
	"context"
	"time"

	"audiovault/internal/blobstore"
	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/repository"

	"go.uber.org/multierr"
)

// SweeperService deletes blobs whose audio row is gone and folders whose user row is
// gone. Entries younger than grace are left alone so in-flight uploads survive.
type SweeperService struct {
	users repository.UserRepo
	audio repository.AudioRepo
	blobs BlobStore
	grace time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func NewSweeperService(users repository.UserRepo, audio repository.AudioRepo, blobs BlobStore, grace time.Duration, log *logger.Logger) *SweeperService {
	return &SweeperService{users: users, audio: audio, blobs: blobs, grace: grace, log: log, now: time.Now}
}

// Run sweeps at the given interval until ctx is canceled. A non-positive interval disables it.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			report, err := s.SweepOnce(ctx)
			if err != nil {
				s.log.Warnw("blob_sweep_failed", "errors", report.Errors, "err", err)
			}
			if report.RemovedFiles > 0 || report.RemovedFolders > 0 {
				s.log.Infow("blob_sweep_done",
					"scanned", report.ScannedFiles,
					"removed_files", report.RemovedFiles,
					"removed_folders", report.RemovedFolders,
				)
			}
		}
	}
}

// SweepOnce makes a single pass over the upload root.
func (s *SweeperService) SweepOnce(ctx context.Context) (models.SweepReport, error) {
	var report models.SweepReport
	cutoff := s.now().Add(-s.grace)

	folders, errs := s.blobs.Folders()
	for _, f := range folders {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		report.ScannedFiles += len(f.Files)

		owned, err := s.users.Exists(ctx, f.Name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !owned {
			if f.Info.ModTime().After(cutoff) {
				continue
			}
			if err := s.blobs.RemoveFolder(f.Name); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			report.RemovedFolders++
			report.RemovedFiles += len(f.Files)
			continue
		}

		for _, fi := range f.Files {
			if fi.ModTime().After(cutoff) {
				continue
			}
			audioID, _, ok := blobstore.ParseBlobName(fi.Name())
			if !ok {
				continue
			}
			known, err := s.audio.Exists(ctx, audioID)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if known {
				continue
			}
			if err := s.blobs.RemoveName(f.Name, fi.Name()); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			report.RemovedFiles++
		}
	}

	report.Errors = len(multierr.Errors(errs))
	return report, errs
}
