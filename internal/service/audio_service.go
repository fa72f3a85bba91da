package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"audiovault"
	"audiovault/internal/blobstore"
	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how many leading bytes content verification inspects.
const sniffLen = 3072

type AudioService struct {
	audio         repository.AudioRepo
	blobs         BlobStore
	deleter       *CascadingDeleter
	events        *recorder
	verifyContent bool
	log           *logger.Logger
	now           func() time.Time
}

func NewAudioService(
	audio repository.AudioRepo,
	blobs BlobStore,
	deleter *CascadingDeleter,
	events *recorder,
	verifyContent bool,
	log *logger.Logger,
) *AudioService {
	return &AudioService{
		audio:         audio,
		blobs:         blobs,
		deleter:       deleter,
		events:        events,
		verifyContent: verifyContent,
		log:           log,
		now:           time.Now,
	}
}

// normalizeMime drops parameters and case from a declared media type.
func normalizeMime(declared string) string {
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = declared[:i]
	}
	return strings.ToLower(strings.TrimSpace(declared))
}

func allowedMime(m string) bool {
	for _, a := range models.AllowedMimeTypes {
		if m == a {
			return true
		}
	}
	return false
}

// contentMatches reports whether the sniffed type, or one of its parents, is declared.
func contentMatches(head []byte, declared string) bool {
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if m.Is(declared) {
			return true
		}
	}
	return false
}

// Upload validates the declared type before touching storage, writes the blob,
// then inserts the row. A failed insert removes the blob again.
func (s *AudioService) Upload(ctx context.Context, sub policy.Subject, in UploadInput) (models.AudioFile, error) {
	mime := normalizeMime(in.DeclaredType)
	if mime == "" {
		return models.AudioFile{}, audiovault.E(audiovault.KindValidation, "no content type specified")
	}
	if !allowedMime(mime) {
		return models.AudioFile{}, audiovault.Ef(audiovault.KindValidation,
			"invalid audio format %q (only MP3/WAV/FLAC/AAC/OGG)", mime)
	}
	filename, err := blobstore.SanitizeFilename(in.Filename)
	if err != nil {
		return models.AudioFile{}, err
	}
	if in.Body == nil {
		return models.AudioFile{}, audiovault.E(audiovault.KindValidation, "no file uploaded")
	}

	body := in.Body
	if s.verifyContent {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(body, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return models.AudioFile{}, audiovault.Wrap(audiovault.KindValidation, "read upload", err)
		}
		head = head[:n]
		if !contentMatches(head, mime) {
			return models.AudioFile{}, audiovault.Ef(audiovault.KindValidation,
				"file content does not match declared type %q", mime)
		}
		body = io.MultiReader(bytes.NewReader(head), body)
	}

	a := models.AudioFile{
		ID:         uuid.NewString(),
		Filename:   filename,
		UserID:     sub.ID,
		CreatedAt:  s.now().UTC(),
		MimeType:   mime,
		UserFolder: sub.ID,
	}

	size, err := s.blobs.Save(a.Ref(), body)
	if err != nil {
		return models.AudioFile{}, audiovault.Wrap(audiovault.KindInternal, "store audio content", err)
	}
	if err := s.audio.Create(ctx, a); err != nil {
		if rerr := s.blobs.Remove(a.Ref()); rerr != nil {
			s.log.Errorw("audio_upload_compensation_failed", "audio_id", a.ID, "err", rerr)
		}
		return models.AudioFile{}, err
	}

	s.events.record(ctx, models.EventUpload, sub.ID, "uploaded "+a.Filename, map[string]any{
		"audio_id": a.ID, "mime_type": a.MimeType, "bytes": size,
	})
	return a, nil
}

// Open resolves the file, checks read access and opens its content.
func (s *AudioService) Open(ctx context.Context, sub policy.Subject, id string) (models.AudioFile, io.ReadCloser, int64, error) {
	a, err := s.audio.Get(ctx, id)
	if err != nil {
		return models.AudioFile{}, nil, 0, err
	}
	if err := policy.Authorize(policy.Request{
		Subject: sub, Resource: policy.ResourceAudio, Action: policy.ActionRead, OwnerID: a.UserID,
	}); err != nil {
		return models.AudioFile{}, nil, 0, err
	}

	rc, size, err := s.blobs.Open(a.Ref())
	if err != nil {
		return models.AudioFile{}, nil, 0, err
	}
	return a, rc, size, nil
}

// ListByUser returns the user's files newest first. An unknown user has no files.
func (s *AudioService) ListByUser(ctx context.Context, sub policy.Subject, userID string) ([]models.AudioFile, error) {
	if err := policy.Authorize(policy.Request{
		Subject: sub, Resource: policy.ResourceAudio, Action: policy.ActionListByUser, TargetID: userID,
	}); err != nil {
		return nil, err
	}
	return s.audio.ListByUser(ctx, userID)
}

// Delete removes the row (and items referencing it) before the blob.
func (s *AudioService) Delete(ctx context.Context, sub policy.Subject, id string) (models.DeletionSummary, error) {
	a, err := s.audio.Get(ctx, id)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	if err := policy.Authorize(policy.Request{
		Subject: sub, Resource: policy.ResourceAudio, Action: policy.ActionDelete, OwnerID: a.UserID,
	}); err != nil {
		return models.DeletionSummary{}, err
	}

	sum, err := s.deleter.DeleteAudio(ctx, a)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	s.events.record(ctx, models.EventAudioDelete, sub.ID, "deleted "+a.Filename, map[string]any{
		"audio_id": a.ID, "owner_id": a.UserID, "referencing_items": sum.ReferencingItems,
	})
	return sum, nil
}
