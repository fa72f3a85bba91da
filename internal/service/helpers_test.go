package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"audiovault/internal/blobstore"
	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/repository"
	"audiovault/internal/repository/db"

	"github.com/spf13/afero"
)

// testEnv is a service stack over a temporary SQLite file and an in-memory blob root.
type testEnv struct {
	svc   *Service
	repos *repository.Repository
	conn  *sql.DB
	fs    afero.Fs
	blobs *blobstore.Store
	users *UserService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, dialect, err := db.InitDB(db.Options{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "library.db"),
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	fs := afero.NewMemMapFs()
	blobs := blobstore.NewWithFs(fs)
	repos := repository.NewRepository(conn, dialect)
	svc := NewService(repos, blobs, Options{
		Secret:     testSecret,
		TokenTTL:   time.Hour,
		SweepGrace: time.Minute,
	}, logger.Nop())

	return &testEnv{
		svc:   svc,
		repos: repos,
		conn:  conn,
		fs:    fs,
		blobs: blobs,
		users: svc.Users.(*UserService),
	}
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

// addUser creates an account directly and returns its subject.
func (e *testEnv) addUser(t *testing.T, name string, admin bool) policy.Subject {
	t.Helper()
	u, err := e.users.create(ctx(t), CreateUserInput{Username: name, Password: "pw-" + name, IsAdmin: admin})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return policy.Subject{ID: u.ID, IsAdmin: u.IsAdmin}
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := e.conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func (e *testEnv) blobExists(t *testing.T, a models.AudioFile) bool {
	t.Helper()
	ok, err := afero.Exists(e.fs, "/"+a.UserFolder+"/"+blobstore.BlobName(a.ID, a.Filename))
	if err != nil {
		t.Fatalf("stat blob: %v", err)
	}
	return ok
}

func intPtr(v int) *int { return &v }
