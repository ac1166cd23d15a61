package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"milltrace.org/internal/authz"
)

var userRowColumns = []string{
	"id", "tenant_id", "mill_id", "email", "password_hash", "role", "status", "created_at",
}

func TestGetUserByEmailNormalizesLookup(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("from users where lower\\(email\\) = \\$1").
		WithArgs("manager@riverside.example").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-mgr", "t1", "m1", "manager@riverside.example", "$2a$10$hash", "mill_manager", "active", time.Now()))

	u, err := store.GetUserByEmail(context.Background(), "  Manager@Riverside.example ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.ID != "u-mgr" || u.Role != "mill_manager" || u.MillID != "m1" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetUserByEmailNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("from users").
		WithArgs("ghost@riverside.example").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := store.GetUserByEmail(context.Background(), "ghost@riverside.example")
	if !errors.Is(err, authz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
