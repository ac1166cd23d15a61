package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"milltrace.org/internal/authz"
)

// Alert is a raised condition routed to a recipient, a role, or an
// escalation chain.
type Alert struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	MillID        string    `json:"mill_id"`
	Severity      string    `json:"severity"`
	Message       string    `json:"message"`
	RecipientID   string    `json:"recipient_user_id,omitempty"`
	RecipientRole string    `json:"recipient_role,omitempty"`
	Resolved      bool      `json:"resolved"`
	CreatedAt     time.Time `json:"created_at"`
}

const alertColumns = `id, tenant_id, mill_id, severity, message,
	coalesce(recipient_user_id, ''), coalesce(recipient_role, ''), resolved, created_at`

func scanAlert(row interface{ Scan(...any) error }) (Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.TenantID, &a.MillID, &a.Severity, &a.Message,
		&a.RecipientID, &a.RecipientRole, &a.Resolved, &a.CreatedAt)
	return a, err
}

// ListAlerts returns unresolved alerts within the scope filter, newest
// first. The filter cannot express recipient narrowing; the handler
// re-checks each row through the engine before exposing it.
func (s *Store) ListAlerts(ctx context.Context, scope authz.Filter, limit int) ([]Alert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	where, args := scope.SQL(1)
	query := fmt.Sprintf(
		"select %s from alerts where resolved = false and %s order by created_at desc limit $%d",
		alertColumns, where, len(args)+1,
	)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAlert loads one full alert row. Callers authorize first via the engine.
func (s *Store) GetAlert(ctx context.Context, id string) (Alert, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("select %s from alerts where id = $1", alertColumns), id)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Alert{}, authz.ErrNotFound
	}
	if err != nil {
		return Alert{}, err
	}
	return a, nil
}

// ResolveAlert marks an alert resolved by the given user.
func (s *Store) ResolveAlert(ctx context.Context, id, resolvedBy string) error {
	res, err := s.db.ExecContext(ctx, `
		update alerts set resolved = true, resolved_by = $2, resolved_at = now()
		where id = $1 and resolved = false
	`, id, resolvedBy)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return authz.ErrNotFound
	}
	return nil
}
