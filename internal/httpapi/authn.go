package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"milltrace.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/v1/auth/token",
	"/",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// withAuth validates the bearer token and attaches the resulting session to
// the request context. Everything outside the public paths requires a token.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := auth.ParseAndValidate(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				respondError(w, r, http.StatusUnauthorized, "invalid token")
			} else {
				respondError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithSession(r.Context(), claims.Session())
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, bearer) {
		return "", errors.New("authorization header must use Bearer scheme")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearer))
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
