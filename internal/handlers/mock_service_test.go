package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"audiovault"
	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

// mockAuth accepts the tokens listed in subjects.
type mockAuth struct {
	subjects    map[string]policy.Subject
	loginToken  string
	loginErr    error
	lastLogin   [2]string
	lastToken   string
	loginCalled int
}

func (m *mockAuth) Login(_ context.Context, username, password string) (string, error) {
	m.loginCalled++
	m.lastLogin = [2]string{username, password}
	return m.loginToken, m.loginErr
}

func (m *mockAuth) Authenticate(_ context.Context, token string) (policy.Subject, error) {
	m.lastToken = token
	if sub, ok := m.subjects[token]; ok {
		return sub, nil
	}
	return policy.Subject{}, audiovault.E(audiovault.KindUnauthenticated, "invalid token")
}

type mockAudio struct {
	file    models.AudioFile
	content string
	summary models.DeletionSummary
	list    []models.AudioFile
	err     error

	lastUpload service.UploadInput
	lastBody   string
	lastSub    policy.Subject
	lastID     string
}

func (m *mockAudio) Upload(_ context.Context, sub policy.Subject, in service.UploadInput) (models.AudioFile, error) {
	m.lastSub, m.lastUpload = sub, in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		m.lastBody = string(b)
	}
	return m.file, m.err
}

func (m *mockAudio) Open(_ context.Context, sub policy.Subject, id string) (models.AudioFile, io.ReadCloser, int64, error) {
	m.lastSub, m.lastID = sub, id
	if m.err != nil {
		return models.AudioFile{}, nil, 0, m.err
	}
	return m.file, io.NopCloser(strings.NewReader(m.content)), int64(len(m.content)), nil
}

func (m *mockAudio) ListByUser(_ context.Context, sub policy.Subject, userID string) ([]models.AudioFile, error) {
	m.lastSub, m.lastID = sub, userID
	return m.list, m.err
}

func (m *mockAudio) Delete(_ context.Context, sub policy.Subject, id string) (models.DeletionSummary, error) {
	m.lastSub, m.lastID = sub, id
	return m.summary, m.err
}

type mockPlaylists struct {
	playlist models.Playlist
	full     models.PlaylistWithItems
	list     []models.Playlist
	item     models.PlaylistItem
	summary  models.DeletionSummary
	err      error

	lastName    string
	lastID      string
	lastItemID  string
	lastAddItem service.AddItemInput
}

func (m *mockPlaylists) Create(_ context.Context, _ policy.Subject, name string) (models.Playlist, error) {
	m.lastName = name
	return m.playlist, m.err
}

func (m *mockPlaylists) List(context.Context, policy.Subject) ([]models.Playlist, error) {
	return m.list, m.err
}

func (m *mockPlaylists) Get(_ context.Context, _ policy.Subject, id string) (models.PlaylistWithItems, error) {
	m.lastID = id
	return m.full, m.err
}

func (m *mockPlaylists) Delete(_ context.Context, _ policy.Subject, id string) (models.DeletionSummary, error) {
	m.lastID = id
	return m.summary, m.err
}

func (m *mockPlaylists) AddItem(_ context.Context, _ policy.Subject, playlistID string, in service.AddItemInput) (models.PlaylistItem, error) {
	m.lastID, m.lastAddItem = playlistID, in
	return m.item, m.err
}

func (m *mockPlaylists) RemoveItem(_ context.Context, _ policy.Subject, playlistID, itemID string) error {
	m.lastID, m.lastItemID = playlistID, itemID
	return m.err
}

type mockUsers struct {
	user    models.User
	list    []models.User
	summary models.DeletionSummary
	err     error

	lastCreate service.CreateUserInput
	lastID     string
}

func (m *mockUsers) Create(_ context.Context, _ policy.Subject, in service.CreateUserInput) (models.User, error) {
	m.lastCreate = in
	return m.user, m.err
}

func (m *mockUsers) List(context.Context, policy.Subject) ([]models.User, error) {
	return m.list, m.err
}

func (m *mockUsers) Delete(_ context.Context, _ policy.Subject, id string) (models.DeletionSummary, error) {
	m.lastID = id
	return m.summary, m.err
}

type mockMonitoring struct {
	stats models.LibraryStats
	err   error
	calls int
}

func (m *mockMonitoring) Stats(context.Context, policy.Subject) (models.LibraryStats, error) {
	m.calls++
	return m.stats, m.err
}

type mockEventLog struct {
	resp     []models.LibraryEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(_ context.Context, _ policy.Subject, f service.LogFilter) ([]models.LibraryEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

var (
	adminSub = policy.Subject{ID: "admin-1", IsAdmin: true}
	userSub  = policy.Subject{ID: "user-1"}
)

// testAuth knows the "admin" and "user" tokens.
func testAuth() *mockAuth {
	return &mockAuth{subjects: map[string]policy.Subject{"admin": adminSub, "user": userSub}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	if s.Authorization == nil {
		s.Authorization = testAuth()
	}
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request, token string) *http.Request {
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
