package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"audiovault"
	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/repository"

	"github.com/google/uuid"
)

const maxUsernameLen = 64

type UserService struct {
	users   repository.UserRepo
	blobs   BlobStore
	deleter *CascadingDeleter
	events  *recorder
	log     *logger.Logger
}

func NewUserService(users repository.UserRepo, blobs BlobStore, deleter *CascadingDeleter, events *recorder, log *logger.Logger) *UserService {
	return &UserService{users: users, blobs: blobs, deleter: deleter, events: events, log: log}
}

func validateUsername(name string) error {
	switch {
	case name == "":
		return audiovault.E(audiovault.KindValidation, "username is required")
	case utf8.RuneCountInString(name) > maxUsernameLen:
		return audiovault.Ef(audiovault.KindValidation, "username exceeds %d characters", maxUsernameLen)
	case strings.ContainsAny(name, " \t\r\n/\\"):
		return audiovault.E(audiovault.KindValidation, "username must not contain whitespace or slashes")
	}
	return nil
}

// Create adds an account. Admin only.
func (s *UserService) Create(ctx context.Context, sub policy.Subject, in CreateUserInput) (models.User, error) {
	if err := policy.Authorize(policy.Request{Subject: sub, Resource: policy.ResourceUser, Action: policy.ActionCreate}); err != nil {
		return models.User{}, err
	}
	u, err := s.create(ctx, in)
	if err != nil {
		return models.User{}, err
	}
	s.events.record(ctx, models.EventUserCreate, sub.ID, "created user "+u.Username, map[string]any{
		"user_id": u.ID, "is_admin": u.IsAdmin,
	})
	return u, nil
}

// create validates, hashes and stores a user without an access check.
// Seeding uses it before any admin exists.
func (s *UserService) create(ctx context.Context, in CreateUserInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return models.User{}, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		IsAdmin:      in.IsAdmin,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return models.User{}, err
	}
	if err := s.blobs.EnsureFolder(u.ID); err != nil {
		// Save creates the folder on first upload anyway.
		s.log.Warnw("user_folder_create_failed", "user_id", u.ID, "err", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, sub policy.Subject) ([]models.User, error) {
	if err := policy.Authorize(policy.Request{Subject: sub, Resource: policy.ResourceUser, Action: policy.ActionList}); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Delete removes a user with everything they own. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, sub policy.Subject, id string) (models.DeletionSummary, error) {
	if err := policy.Authorize(policy.Request{
		Subject: sub, Resource: policy.ResourceUser, Action: policy.ActionDelete, TargetID: id,
	}); err != nil {
		return models.DeletionSummary{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.DeletionSummary{}, err
	}

	sum, err := s.deleter.DeleteUser(ctx, u.ID)
	if err != nil {
		return models.DeletionSummary{}, err
	}
	s.events.record(ctx, models.EventUserDelete, sub.ID, "deleted user "+u.Username, map[string]any{
		"user_id":   u.ID,
		"audio":     sum.AudioFiles,
		"playlists": sum.Playlists,
		"blobs":     sum.BlobsDeleted,
	})
	return sum, nil
}
