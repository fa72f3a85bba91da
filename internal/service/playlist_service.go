package service

import (
	"context"
	"strings"
	"time"

	"audiovault"
	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/repository"

	"github.com/google/uuid"
)

const maxPlaylistName = 200

type PlaylistService struct {
	playlists repository.PlaylistRepo
	deleter   *CascadingDeleter
	events    *recorder
	now       func() time.Time
}

func NewPlaylistService(playlists repository.PlaylistRepo, deleter *CascadingDeleter, events *recorder) *PlaylistService {
	return &PlaylistService{playlists: playlists, deleter: deleter, events: events, now: time.Now}
}

func (s *PlaylistService) Create(ctx context.Context, sub policy.Subject, name string) (models.Playlist, error) {
	if err := policy.Authorize(policy.Request{Subject: sub, Resource: policy.ResourcePlaylist, Action: policy.ActionCreate}); err != nil {
		return models.Playlist{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, audiovault.E(audiovault.KindValidation, "playlist name is required")
	}
	if len(name) > maxPlaylistName {
		return models.Playlist{}, audiovault.Ef(audiovault.KindValidation, "playlist name exceeds %d bytes", maxPlaylistName)
	}

	p := models.Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    sub.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.playlists.Create(ctx, p); err != nil {
		return models.Playlist{}, err
	}
	s.events.record(ctx, models.EventPlaylistCreate, sub.ID, "created playlist "+p.Name, map[string]any{"playlist_id": p.ID})
	return p, nil
}

func (s *PlaylistService) List(ctx context.Context, sub policy.Subject) ([]models.Playlist, error) {
	if policy.Decide(policy.Request{Subject: sub, Resource: policy.ResourcePlaylist, Action: policy.ActionListAll}).Allowed() {
		return s.playlists.ListAll(ctx)
	}
	if err := policy.Authorize(policy.Request{Subject: sub, Resource: policy.ResourcePlaylist, Action: policy.ActionListOwn}); err != nil {
		return nil, err
	}
	return s.playlists.ListByUser(ctx, sub.ID)
}

// Get returns the playlist with its items ordered by position.
func (s *PlaylistService) Get(ctx context.Context, sub policy.Subject, id string) (models.PlaylistWithItems, error) {
	p, err := s.authorized(ctx, sub, id, policy.ResourcePlaylist, policy.ActionRead)
	if err != nil {
		return models.PlaylistWithItems{}, err
	}
	items, err := s.playlists.Items(ctx, p.ID)
	if err != nil {
		return models.PlaylistWithItems{}, err
	}
	return models.PlaylistWithItems{
		ID:        p.ID,
		Name:      p.Name,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		Items:     items,
	}, nil
}

func (s *PlaylistService) Delete(ctx context.Context, sub policy.Subject, id string) (models.DeletionSummary, error) {
	p, err := s.authorized(ctx, sub, id, policy.ResourcePlaylist, policy.ActionDelete)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	sum, err := s.deleter.DeletePlaylist(ctx, p.ID)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	s.events.record(ctx, models.EventPlaylistDelete, sub.ID, "deleted playlist "+p.Name, map[string]any{
		"playlist_id": p.ID, "owner_id": p.UserID, "items": sum.OwnedPlaylistItems,
	})
	return sum, nil
}

// AddItem is owner only; admins do not override item mutation.
func (s *PlaylistService) AddItem(ctx context.Context, sub policy.Subject, playlistID string, in AddItemInput) (models.PlaylistItem, error) {
	p, err := s.authorized(ctx, sub, playlistID, policy.ResourcePlaylistItem, policy.ActionAddItem)
	if err != nil {
		return models.PlaylistItem{}, err
	}
	audioID := strings.TrimSpace(in.AudioID)
	if audioID == "" {
		return models.PlaylistItem{}, audiovault.E(audiovault.KindValidation, "audio_id is required")
	}

	item, err := s.playlists.AddItem(ctx, p.ID, audioID, in.Position)
	if err != nil {
		return models.PlaylistItem{}, err
	}
	s.events.record(ctx, models.EventItemAdd, sub.ID, "added item to "+p.Name, map[string]any{
		"playlist_id": p.ID, "item_id": item.ID, "audio_id": item.AudioID, "position": item.Position,
	})
	return item, nil
}

func (s *PlaylistService) RemoveItem(ctx context.Context, sub policy.Subject, playlistID, itemID string) error {
	p, err := s.authorized(ctx, sub, playlistID, policy.ResourcePlaylistItem, policy.ActionRemoveItem)
	if err != nil {
		return err
	}
	if err := s.playlists.RemoveItem(ctx, p.ID, itemID); err != nil {
		return err
	}
	s.events.record(ctx, models.EventItemRemove, sub.ID, "removed item from "+p.Name, map[string]any{
		"playlist_id": p.ID, "item_id": itemID,
	})
	return nil
}

// authorized loads the playlist and checks the action against its owner.
func (s *PlaylistService) authorized(ctx context.Context, sub policy.Subject, id string, res policy.Resource, act policy.Action) (models.Playlist, error) {
	p, err := s.playlists.Get(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	if err := policy.Authorize(policy.Request{Subject: sub, Resource: res, Action: act, OwnerID: p.UserID}); err != nil {
		return models.Playlist{}, err
	}
	return p, nil
}
