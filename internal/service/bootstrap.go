package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"audiovault"
	"audiovault/internal/models"

	"gopkg.in/yaml.v3"
)

// SeedFile is the bootstrap users file.
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	IsAdmin  bool   `yaml:"is_admin"`
}

// LoadSeedFile parses a bootstrap users file.
func LoadSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f, nil
}

// Seed creates the users listed in path that do not exist yet. This is how the
// first admin comes to be, so it runs without an access check.
func (s *UserService) Seed(ctx context.Context, path string) (created int, err error) {
	f, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	for _, su := range f.Users {
		username := strings.TrimSpace(su.Username)
		_, err := s.users.GetByUsername(ctx, username)
		if err == nil {
			s.log.Debugw("seed_user_exists", "username", username)
			continue
		}
		if !errors.Is(err, audiovault.ErrNotFound) {
			return created, err
		}

		u, err := s.create(ctx, CreateUserInput{Username: username, Password: su.Password, IsAdmin: su.IsAdmin})
		if err != nil {
			return created, fmt.Errorf("seed user %q: %w", username, err)
		}
		created++
		s.events.record(ctx, models.EventUserCreate, "bootstrap", "seeded user "+u.Username, map[string]any{
			"user_id": u.ID, "is_admin": u.IsAdmin,
		})
	}
	return created, nil
}
