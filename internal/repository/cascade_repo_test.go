package repository

import (
	"errors"
	"reflect"
	"regexp"
	"testing"

	"audiovault"
	"audiovault/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUserDeletion_StepOrder(t *testing.T) {
	t.Parallel()

	got := UserDeletion("u1", nil).StepNames()
	want := []string{
		StepCollectAudio,
		StepDeleteAudioRefs,
		StepDeleteAudio,
		StepCollectPlaylists,
		StepDeleteOwnedItems,
		StepDeletePlaylists,
		StepDeleteUser,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
}

func expectUserCascade(mock sqlmock.Sqlmock, userRows int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserAudioSQL)).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_folder", "filename"}).
			AddRow("a1", "bob_u1", "one.mp3").
			AddRow("a2", "bob_u1", "two.wav"))
	mock.ExpectExec(regexp.QuoteMeta(deleteItemsOfUserAudioSQL)).WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(deleteUserAudioSQL)).WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserPlaylistsSQL)).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
	mock.ExpectExec(regexp.QuoteMeta(deleteItemsOfUserPlaylistsSQL)).WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteUserPlaylistsSQL)).WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteUserSQL)).WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, userRows))
}

func TestCascade_DeleteUser(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	expectUserCascade(mock, 1)
	mock.ExpectCommit()

	sum, blobs, err := NewCascadeSQL(conn, db.SQLite).DeleteUser(ctx(t), "u1")
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if sum.UserID != "u1" || sum.ReferencingItems != 3 || sum.AudioFiles != 2 ||
		sum.OwnedPlaylistItems != 1 || sum.Playlists != 1 || sum.Users != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(blobs) != 2 || blobs[0].AudioID != "a1" || blobs[1].Filename != "two.wav" || blobs[0].Folder != "bob_u1" {
		t.Fatalf("unexpected blobs %+v", blobs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCascade_DeleteUser_MissingUserRollsBack(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	expectUserCascade(mock, 0)
	mock.ExpectRollback()

	_, blobs, err := NewCascadeSQL(conn, db.SQLite).DeleteUser(ctx(t), "u1")
	if !errors.Is(err, audiovault.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if blobs != nil {
		t.Fatalf("no blobs expected on failure, got %+v", blobs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCascade_DeleteUser_StepFailureRollsBack(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserAudioSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_folder", "filename"}))
	mock.ExpectExec(regexp.QuoteMeta(deleteItemsOfUserAudioSQL)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteUserAudioSQL)).
		WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	_, _, err := NewCascadeSQL(conn, db.SQLite).DeleteUser(ctx(t), "u1")
	if err == nil || audiovault.KindOf(err) != audiovault.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestCascade_DeletePlaylistAndAudio(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewCascadeSQL(conn, db.Postgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_items WHERE playlist_id = $1`)).WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_items WHERE audio_id = $1`)).WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM audio_files WHERE id = $1`)).WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	sum, err := repo.DeletePlaylist(ctx(t), "p1")
	if err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	if sum.OwnedPlaylistItems != 4 || sum.Playlists != 1 || sum.PlaylistID != "p1" {
		t.Fatalf("unexpected summary %+v", sum)
	}

	if _, err := repo.DeleteAudio(ctx(t), "a1"); !errors.Is(err, audiovault.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
