package service

import (
	"context"
	"time"

	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/repository"
)

// recorder appends library events after a mutation has committed.
// A failed append is logged and never fails the mutation.
type recorder struct {
	events repository.EventRepo
	log    *logger.Logger
}

func newRecorder(events repository.EventRepo, log *logger.Logger) *recorder {
	return &recorder{events: events, log: log}
}

func (r *recorder) record(ctx context.Context, typ, actor, description string, meta map[string]any) {
	if r == nil || r.events == nil {
		return
	}
	err := r.events.Append(ctx, models.LibraryEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		ActorID:     actor,
		Description: description,
		Metadata:    meta,
	})
	if err != nil {
		r.log.Warnw("library_event_append_failed", "type", typ, "actor", actor, "err", err)
	}
}
