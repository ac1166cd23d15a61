package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"milltrace.org/internal/authz"
)

// User is one portal account row.
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id,omitempty"`
	MillID       string    `json:"mill_id,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetUserByEmail loads an account for credential verification. Email
// matching is case-insensitive.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := s.db.QueryRowContext(ctx, `
		select id, coalesce(tenant_id, ''), coalesce(mill_id, ''), email,
		       password_hash, role, status, created_at
		from users where lower(email) = $1
	`, email)

	var u User
	err := row.Scan(&u.ID, &u.TenantID, &u.MillID, &u.Email,
		&u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, authz.ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
