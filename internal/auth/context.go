package auth

import (
	"context"

	"milltrace.org/internal/authz"
)

type sessionContextKey struct{}
type tokenContextKey struct{}

// ContextWithSession attaches the authenticated session to the context.
func ContextWithSession(ctx context.Context, sess authz.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, &sess)
}

// SessionFromContext extracts the authenticated session from the context.
func SessionFromContext(ctx context.Context) (authz.Session, bool) {
	if ctx == nil {
		return authz.Session{}, false
	}
	v, ok := ctx.Value(sessionContextKey{}).(*authz.Session)
	if !ok || v == nil {
		return authz.Session{}, false
	}
	return *v, true
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	sess, ok := SessionFromContext(ctx)
	if !ok || sess.UserID == "" {
		return "", false
	}
	return sess.UserID, true
}

// ContextWithToken stores the raw bearer token inside the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
