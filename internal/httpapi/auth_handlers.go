package httpapi

import (
	"net/http"
	"strings"
	"time"

	"milltrace.org/internal/audit"
	"milltrace.org/internal/auth"
	"milltrace.org/internal/authz"
)

const tokenTTL = 15 * time.Minute

// IssueToken authenticates account credentials and mints a session token.
// Every credential failure answers the same 401 so callers cannot probe
// which part was wrong.
func (a *API) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		respondError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		respondError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.Status != "active" {
		respondError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		respondError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess := authz.Session{
		UserID:   user.ID,
		Role:     authz.Role(user.Role),
		TenantID: user.TenantID,
		MillID:   user.MillID,
	}
	token, err := auth.GenerateToken(sess, tokenTTL)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	expiresAt := time.Now().UTC().Add(tokenTTL)
	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"user_id": user.ID,
		"role":    user.Role,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}
