package repository

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"audiovault/internal/models"
	"audiovault/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

const listEventsBase = `SELECT id, occurred_at, type, actor_id, message, meta FROM library_events`

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewEventSQL(conn, db.SQLite)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "UPLOAD", "u1", "uploaded", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.LibraryEvent{
		Type:        "  upload ",
		ActorID:     "u1",
		Description: "uploaded",
		Metadata:    map[string]any{"audio_id": "a1"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewEventSQL(conn, db.SQLite)

	mock.ExpectExec("INSERT INTO library_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.LibraryEvent{Type: "upload", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewEventSQL(conn, db.SQLite)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "actor_id", "message", "meta"}).
		AddRow("1", now, "UPLOAD", "u1", "m1", string(js)).
		AddRow("2", now.Add(time.Hour), "USER_DELETE", "admin", "m2", nil)

	mock.ExpectQuery(regexp.QuoteMeta(listEventsBase + ` ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "1" || got[1].EventID != "2" {
		t.Fatalf("unexpected events: %+v", got)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[1].ActorID != "admin" {
		t.Fatalf("actor = %q", got[1].ActorID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_PostgresPlaceholders(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewEventSQL(conn, db.Postgres)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := listEventsBase + ` WHERE occurred_at >= $1 AND occurred_at <= $2 AND type = $3 ORDER BY occurred_at ASC`
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "actor_id", "message", "meta"}).
		AddRow("2", from, "ITEM_ADD", "u1", "b", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from, to, "ITEM_ADD").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, " item_add ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Type != "ITEM_ADD" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	conn, mock := newMock(t)
	repo := NewEventSQL(conn, db.SQLite)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "actor_id", "message", "meta"}).
		AddRow("x", 123, "UPLOAD", "u1", "msg", nil)

	mock.ExpectQuery(regexp.QuoteMeta(listEventsBase + ` ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
