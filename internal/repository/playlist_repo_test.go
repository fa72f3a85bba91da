package repository

import (
	"errors"
	"math"
	"regexp"
	"testing"

	"audiovault"
	"audiovault/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func intPtr(v int) *int { return &v }

func TestAddItem_AppendsAfterMax(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewPlaylistSQL(conn, db.SQLite)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockPlaylistSQL)).WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(countAudioByIDSQL)).WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(maxPositionSQL)).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta(insertItemSQL)).WithArgs(sqlmock.AnyArg(), "p1", "a1", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := repo.AddItem(ctx(t), "p1", "a1", nil)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Position != 4 || item.ID == "" || item.PlaylistID != "p1" || item.AudioID != "a1" {
		t.Fatalf("unexpected item %+v", item)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

// The playlist row lock must be taken before MAX(position) is read, otherwise
// two appends on separate connections can both read the same maximum.
func TestAddItem_PostgresLocksBeforeReadingMax(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	mock.MatchExpectationsInOrder(true)
	repo := NewPlaylistSQL(conn, db.Postgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE playlists SET name = name WHERE id = $1`)).WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM audio_files WHERE id = $1`)).WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(position), 0) FROM playlist_items WHERE playlist_id = $1`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO playlist_items (id, playlist_id, audio_id, position) VALUES ($1, $2, $3, $4)`)).
		WithArgs(sqlmock.AnyArg(), "p1", "a1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := repo.AddItem(ctx(t), "p1", "a1", nil)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Position != 1 {
		t.Fatalf("position = %d, want 1", item.Position)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAddItem_ExplicitPositionStoredVerbatim(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewPlaylistSQL(conn, db.SQLite)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockPlaylistSQL)).WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(countAudioByIDSQL)).WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(insertItemSQL)).WithArgs(sqlmock.AnyArg(), "p1", "a1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	item, err := repo.AddItem(ctx(t), "p1", "a1", intPtr(0))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Position != 0 {
		t.Fatalf("position = %d, want 0", item.Position)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAddItem_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		position *int
		setup    func(mock sqlmock.Sqlmock)
		wantKind audiovault.Kind
	}{
		{
			name:     "negative position",
			position: intPtr(-1),
			setup:    func(sqlmock.Sqlmock) {},
			wantKind: audiovault.KindValidation,
		},
		{
			name:     "position beyond integer column",
			position: intPtr(math.MaxInt32 + 1),
			setup:    func(sqlmock.Sqlmock) {},
			wantKind: audiovault.KindValidation,
		},
		{
			name: "missing playlist",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(lockPlaylistSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantKind: audiovault.KindNotFound,
		},
		{
			name: "missing audio",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(lockPlaylistSQL)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(countAudioByIDSQL)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectRollback()
			},
			wantKind: audiovault.KindNotFound,
		},
		{
			name: "insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(lockPlaylistSQL)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(countAudioByIDSQL)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(regexp.QuoteMeta(maxPositionSQL)).
					WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
				mock.ExpectExec(regexp.QuoteMeta(insertItemSQL)).WillReturnError(errors.New("io"))
				mock.ExpectRollback()
			},
			wantKind: audiovault.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMock(t)
			tt.setup(mock)

			_, err := NewPlaylistSQL(conn, db.SQLite).AddItem(ctx(t), "p1", "a1", tt.position)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := audiovault.KindOf(err); got != tt.wantKind {
				t.Fatalf("kind = %v, want %v (%v)", got, tt.wantKind, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("mock expectations: %v", err)
			}
		})
	}
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewPlaylistSQL(conn, db.SQLite)

	mock.ExpectExec(regexp.QuoteMeta(deletePlaylistItemSQL)).WithArgs("i1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deletePlaylistItemSQL)).WithArgs("i1", "p2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.RemoveItem(ctx(t), "p1", "i1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := repo.RemoveItem(ctx(t), "p2", "i1"); !errors.Is(err, audiovault.ErrNotFound) {
		t.Fatalf("expected NotFound for item of another playlist, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestItems_OrderedJoin(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewPlaylistSQL(conn, db.SQLite)

	mock.ExpectQuery(regexp.QuoteMeta(listPlaylistItemsSQL)).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "audio_id", "position", "filename", "mime_type"}).
			AddRow("i1", "a1", 1, "one.mp3", "audio/mpeg").
			AddRow("i2", "a2", 2, "two.wav", "audio/wav"))

	items, err := repo.Items(ctx(t), "p1")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 || items[0].Filename != "one.mp3" || items[1].Position != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestPlaylistGet_NotFound(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectPlaylistSQL)).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "created_at"}))

	_, err := NewPlaylistSQL(conn, db.SQLite).Get(ctx(t), "nope")
	if !errors.Is(err, audiovault.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
