package auth

import (
	"testing"
	"time"

	"milltrace.org/internal/authz"
)

func withSecret(t *testing.T, value string) {
	t.Helper()
	ResetSecretForTests()
	t.Setenv(secretEnvVariable, value)
	t.Cleanup(ResetSecretForTests)
}

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	withSecret(t, "unit-test-secret")

	sess := authz.Session{
		UserID:   "user-42",
		Role:     authz.RoleMillManager,
		TenantID: "t1",
		MillID:   "m1",
	}
	token, err := GenerateToken(sess, 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	got := claims.Session()
	if got != sess {
		t.Fatalf("session round trip mismatch: %+v != %+v", got, sess)
	}
}

func TestGenerateTokenRejectsUnknownRole(t *testing.T) {
	withSecret(t, "unit-test-secret")

	_, err := GenerateToken(authz.Session{UserID: "u1", Role: "intruder"}, time.Minute)
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	withSecret(t, "unit-test-secret")

	if _, err := ParseAndValidate(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := ParseAndValidate("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	withSecret(t, "secret-a")
	token, err := GenerateToken(authz.Session{UserID: "u1", Role: authz.RoleDriver}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	withSecret(t, "secret-b")
	if _, err := ParseAndValidate(token); err == nil {
		t.Fatal("expected validation failure with rotated secret")
	}
}

func TestMissingSecretFailsClosed(t *testing.T) {
	withSecret(t, "")

	if _, err := GenerateToken(authz.Session{UserID: "u1", Role: authz.RoleDriver}, time.Minute); err == nil {
		t.Fatal("expected error without configured secret")
	}
}

func TestContextHelpers(t *testing.T) {
	sess := authz.Session{UserID: "user-7", Role: authz.RoleInspector, TenantID: "t1"}
	ctx := ContextWithSession(t.Context(), sess)

	got, ok := SessionFromContext(ctx)
	if !ok || got != sess {
		t.Fatalf("unexpected session: %+v, ok=%v", got, ok)
	}
	id, ok := UserIDFromContext(ctx)
	if !ok || id != "user-7" {
		t.Fatalf("unexpected user id: %s, ok=%v", id, ok)
	}
	if _, ok := SessionFromContext(t.Context()); ok {
		t.Fatal("expected no session on fresh context")
	}

	ctx = ContextWithToken(ctx, "raw-token")
	tok, ok := TokenFromContext(ctx)
	if !ok || tok != "raw-token" {
		t.Fatalf("unexpected token: %s, ok=%v", tok, ok)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "s3cret"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
