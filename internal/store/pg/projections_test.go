package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"milltrace.org/internal/authz"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestFetchProjectionBatch(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select coalesce\\(tenant_id, ''\\), coalesce\\(mill_id, ''\\), coalesce\\(created_by, ''\\).*from batches").
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "mill_id", "created_by", "owner", "assigned_to"}).
			AddRow("t1", "m1", "u-creator", "", ""))

	desc, err := store.FetchProjection(context.Background(), authz.ResourceBatch, "b1")
	if err != nil {
		t.Fatalf("FetchProjection: %v", err)
	}
	if desc.Type != authz.ResourceBatch || desc.ID != "b1" {
		t.Fatalf("descriptor identity wrong: %+v", desc)
	}
	if desc.TenantID != "t1" || desc.MillID != "m1" || desc.CreatedBy != "u-creator" {
		t.Fatalf("unexpected projection: %+v", desc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFetchProjectionNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("from batches").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "mill_id", "created_by", "owner", "assigned_to"}))

	_, err := store.FetchProjection(context.Background(), authz.ResourceBatch, "missing")
	if !errors.Is(err, authz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchProjectionUnknownType(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.FetchProjection(context.Background(), "spaceship", "x1")
	if !errors.Is(err, authz.ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestFetchProjectionAlertEscalationList(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("from alerts").
		WithArgs("al1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "mill_id", "recipient_user_id", "recipient_role", "escalated_to"}).
			AddRow("t1", "m1", "u-primary", "mill_manager", []byte(`["u-esc1","u-esc2"]`)))

	desc, err := store.FetchProjection(context.Background(), authz.ResourceAlert, "al1")
	if err != nil {
		t.Fatalf("FetchProjection: %v", err)
	}
	if desc.RecipientID != "u-primary" || desc.RecipientRole != authz.RoleMillManager {
		t.Fatalf("unexpected recipients: %+v", desc)
	}
	if len(desc.EscalatedTo) != 2 || desc.EscalatedTo[1] != "u-esc2" {
		t.Fatalf("unexpected escalation list: %v", desc.EscalatedTo)
	}
}

func TestFetchProjectionAlertBadEscalationJSON(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("from alerts").
		WithArgs("al2").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "mill_id", "recipient_user_id", "recipient_role", "escalated_to"}).
			AddRow("t1", "m1", "", "", []byte(`{"broken":`)))

	_, err := store.FetchProjection(context.Background(), authz.ResourceAlert, "al2")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, authz.ErrNotFound) || errors.Is(err, authz.ErrDenied) {
		t.Fatalf("decode failure conflated with a decision: %v", err)
	}
}

func TestFetchProjectionMillIsItsOwnFacility(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select coalesce\\(tenant_id, ''\\), id, .*from mills").
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "id", "created_by", "owner", "assigned_to"}).
			AddRow("t1", "m1", "", "", ""))

	desc, err := store.FetchProjection(context.Background(), authz.ResourceMill, "m1")
	if err != nil {
		t.Fatalf("FetchProjection: %v", err)
	}
	if desc.MillID != "m1" {
		t.Fatalf("mill projection must use its own id as facility: %+v", desc)
	}
}
