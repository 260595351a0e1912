package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"social-login/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var recordColumns = []string{"id", "provider", "oauth_id", "name", "created_at"}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewPostgresStore(&db.DB{DB: conn}), mock
}

func TestPostgresStoreFindByOAuthID(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users").
		WithArgs("github", "42").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("0b7f0c1e-3a53-4c39-9a1f-3c9f8e6c2d11", "github", "42", "Ada", created))

	rec, err := store.FindByOAuthID(context.Background(), "github", "42")
	if err != nil {
		t.Fatalf("FindByOAuthID() error = %v", err)
	}
	if rec.Name != "Ada" || rec.OAuthID != "42" || !rec.Created.Equal(created) {
		t.Fatalf("FindByOAuthID() = %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreFindByOAuthIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM users").
		WithArgs("github", "missing").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err := store.FindByOAuthID(context.Background(), "github", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByOAuthID() error = %v, want ErrNotFound", err)
	}
}

func TestPostgresStoreFindByOAuthIDStorageError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM users").
		WithArgs("github", "42").
		WillReturnError(boom)

	_, err := store.FindByOAuthID(context.Background(), "github", "42")

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("FindByOAuthID() error = %v, want *StorageError", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected error chain to contain %v", boom)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("storage failure must not be reported as ErrNotFound")
	}
}

func TestPostgresStoreFindByIDRejectsMalformedID(t *testing.T) {
	store, mock := newMockStore(t)

	if _, err := store.FindByID(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByID() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query: %v", err)
	}
}

func TestPostgresStoreCreate(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Now().UTC()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "github", "42", "Ada", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := store.Create(context.Background(), Record{
		Provider: "github",
		OAuthID:  "42",
		Name:     "Ada",
		Created:  created,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected Create to assign an ID")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreCreateConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := store.Create(context.Background(), Record{Provider: "github", OAuthID: "42"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}
}
