package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"audiovault"
	"audiovault/internal/logger"
	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/repository"
)

func upload(t *testing.T, e *testEnv, sub policy.Subject, name, mime, body string) models.AudioFile {
	t.Helper()
	a, err := e.svc.Audio.Upload(ctx(t), sub, UploadInput{Filename: name, DeclaredType: mime, Body: strings.NewReader(body)})
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return a
}

func TestAudioService_UploadAndOpen(t *testing.T) {
	e := newEnv(t)
	bob := e.addUser(t, "bob", false)

	a := upload(t, e, bob, "../song.mp3", "Audio/MPEG; charset=binary", "ID3-bytes")
	if a.Filename != "song.mp3" || a.MimeType != models.MimeMPEG || a.UserID != bob.ID || a.UserFolder != bob.ID {
		t.Fatalf("unexpected metadata %+v", a)
	}
	if !e.blobExists(t, a) {
		t.Fatalf("blob not written")
	}

	got, rc, size, err := e.svc.Audio.Open(ctx(t), bob, a.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if got.ID != a.ID || string(body) != "ID3-bytes" || size != int64(len(body)) {
		t.Fatalf("Open = %+v %q %d", got, body, size)
	}

	events, err := e.repos.Events.List(ctx(t), time.Time{}, time.Time{}, models.EventUpload)
	if err != nil || len(events) != 1 || events[0].ActorID != bob.ID {
		t.Fatalf("upload event = %+v, %v", events, err)
	}
}

func TestAudioService_UploadRejectsBeforeStoring(t *testing.T) {
	e := newEnv(t)
	bob := e.addUser(t, "bob", false)

	tests := []struct {
		name     string
		filename string
		mime     string
	}{
		{"unsupported type", "notes.txt", "text/plain"},
		{"no type", "song.mp3", ""},
		{"bad filename", "..", models.MimeMPEG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Audio.Upload(ctx(t), bob, UploadInput{
				Filename: tt.filename, DeclaredType: tt.mime, Body: strings.NewReader("data"),
			})
			if !errors.Is(err, audiovault.ErrValidation) {
				t.Fatalf("expected Validation, got %v", err)
			}
		})
	}

	if n := e.count(t, "SELECT COUNT(*) FROM audio_files"); n != 0 {
		t.Fatalf("rejected uploads left %d rows", n)
	}
	files, _, err := e.blobs.Usage()
	if err != nil || files != 0 {
		t.Fatalf("rejected uploads left %d blobs (%v)", files, err)
	}
}

func TestAudioService_VerifyContent(t *testing.T) {
	e := newEnv(t)
	bob := e.addUser(t, "bob", false)
	svc := NewAudioService(e.repos.Audio, e.blobs, nil, nil, true, logger.Nop())

	mp3 := append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0}, 4096)...)
	a, err := svc.Upload(ctx(t), bob, UploadInput{Filename: "real.mp3", DeclaredType: models.MimeMPEG, Body: bytes.NewReader(mp3)})
	if err != nil {
		t.Fatalf("genuine mp3 rejected: %v", err)
	}
	_, rc, size, err := svc.Open(ctx(t), bob, a.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rc.Close()
	if size != int64(len(mp3)) {
		t.Fatalf("sniffed bytes lost: stored %d of %d", size, len(mp3))
	}

	_, err = svc.Upload(ctx(t), bob, UploadInput{Filename: "fake.mp3", DeclaredType: models.MimeMPEG, Body: strings.NewReader("just some text")})
	if !errors.Is(err, audiovault.ErrValidation) {
		t.Fatalf("text body accepted as mp3: %v", err)
	}
}

func TestAudioService_AccessRules(t *testing.T) {
	e := newEnv(t)
	admin := e.addUser(t, "admin", true)
	bob := e.addUser(t, "bob", false)
	carol := e.addUser(t, "carol", false)
	a := upload(t, e, bob, "song.mp3", models.MimeMPEG, "bytes")

	if _, _, _, err := e.svc.Audio.Open(ctx(t), carol, a.ID); !errors.Is(err, audiovault.ErrUnauthorized) {
		t.Fatalf("other user read: %v", err)
	}
	_, rc, _, err := e.svc.Audio.Open(ctx(t), admin, a.ID)
	if err != nil {
		t.Fatalf("admin read: %v", err)
	}
	rc.Close()

	if _, _, _, err := e.svc.Audio.Open(ctx(t), bob, "missing"); !errors.Is(err, audiovault.ErrNotFound) {
		t.Fatalf("missing audio: %v", err)
	}

	if _, err := e.svc.Audio.ListByUser(ctx(t), carol, bob.ID); !errors.Is(err, audiovault.ErrUnauthorized) {
		t.Fatalf("other user list: %v", err)
	}
	list, err := e.svc.Audio.ListByUser(ctx(t), admin, bob.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("admin list = %v, %v", list, err)
	}
	list, err = e.svc.Audio.ListByUser(ctx(t), admin, "nobody")
	if err != nil || len(list) != 0 {
		t.Fatalf("unknown user list = %v, %v", list, err)
	}

	if _, err := e.svc.Audio.Delete(ctx(t), carol, a.ID); !errors.Is(err, audiovault.ErrUnauthorized) {
		t.Fatalf("other user delete: %v", err)
	}
	if !e.blobExists(t, a) {
		t.Fatalf("denied delete removed the blob")
	}
}

func TestAudioService_DeleteRemovesItemsThenBlob(t *testing.T) {
	e := newEnv(t)
	bob := e.addUser(t, "bob", false)
	a := upload(t, e, bob, "song.mp3", models.MimeMPEG, "bytes")
	p, err := e.svc.Playlists.Create(ctx(t), bob, "mix")
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := e.svc.Playlists.AddItem(ctx(t), bob, p.ID, AddItemInput{AudioID: a.ID}); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	sum, err := e.svc.Audio.Delete(ctx(t), bob, a.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sum.ReferencingItems != 2 || sum.AudioFiles != 1 || sum.BlobsDeleted != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if e.blobExists(t, a) {
		t.Fatalf("blob survived delete")
	}
	if n := e.count(t, "SELECT COUNT(*) FROM playlist_items"); n != 0 {
		t.Fatalf("%d items still reference the deleted audio", n)
	}
	if _, err := e.svc.Audio.Delete(ctx(t), bob, a.ID); !errors.Is(err, audiovault.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

// failingAudioRepo passes everything through except Create.
type failingAudioRepo struct {
	repository.AudioRepo
}

func (failingAudioRepo) Create(context.Context, models.AudioFile) error {
	return errors.New("disk full")
}

func TestAudioService_UploadCompensatesFailedInsert(t *testing.T) {
	e := newEnv(t)
	bob := e.addUser(t, "bob", false)
	svc := NewAudioService(failingAudioRepo{e.repos.Audio}, e.blobs, nil, nil, false, logger.Nop())

	_, err := svc.Upload(ctx(t), bob, UploadInput{Filename: "song.mp3", DeclaredType: models.MimeMPEG, Body: strings.NewReader("bytes")})
	if audiovault.KindOf(err) != audiovault.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	files, _, err := e.blobs.Usage()
	if err != nil || files != 0 {
		t.Fatalf("failed insert left %d blobs (%v)", files, err)
	}
}
