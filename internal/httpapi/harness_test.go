package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"milltrace.org/internal/auth"
	"milltrace.org/internal/authz"
	"milltrace.org/internal/store/pg"
)

// stubProjections is an in-memory authz.ProjectionStore.
type stubProjections struct {
	descs map[string]authz.Descriptor
}

func (s *stubProjections) FetchProjection(ctx context.Context, rt authz.ResourceType, id string) (authz.Descriptor, error) {
	desc, ok := s.descs[string(rt)+"/"+id]
	if !ok {
		return authz.Descriptor{}, authz.ErrNotFound
	}
	return desc, nil
}

type stubBatches struct {
	rows      map[string]pg.Batch
	lastScope authz.Filter
}

func (s *stubBatches) ListBatches(ctx context.Context, scope authz.Filter, limit int) ([]pg.Batch, error) {
	s.lastScope = scope
	out := make([]pg.Batch, 0, len(s.rows))
	for _, b := range s.rows {
		out = append(out, b)
	}
	return out, nil
}

func (s *stubBatches) GetBatch(ctx context.Context, id string) (pg.Batch, error) {
	b, ok := s.rows[id]
	if !ok {
		return pg.Batch{}, authz.ErrNotFound
	}
	return b, nil
}

func (s *stubBatches) CreateBatch(ctx context.Context, b pg.Batch) (pg.Batch, error) {
	b.ID = "b-new"
	b.CreatedAt = time.Now().UTC()
	s.rows[b.ID] = b
	return b, nil
}

func (s *stubBatches) UpdateBatchFields(ctx context.Context, id string, fields map[string]any) (pg.Batch, error) {
	b, ok := s.rows[id]
	if !ok {
		return pg.Batch{}, authz.ErrNotFound
	}
	if v, ok := fields["status"].(string); ok {
		b.Status = v
	}
	if v, ok := fields["notes"].(string); ok {
		b.Notes = v
	}
	s.rows[id] = b
	return b, nil
}

type stubAlerts struct {
	rows     map[string]pg.Alert
	resolved []string
}

func (s *stubAlerts) ListAlerts(ctx context.Context, scope authz.Filter, limit int) ([]pg.Alert, error) {
	out := make([]pg.Alert, 0, len(s.rows))
	for _, a := range s.rows {
		if !a.Resolved {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAlerts) GetAlert(ctx context.Context, id string) (pg.Alert, error) {
	a, ok := s.rows[id]
	if !ok {
		return pg.Alert{}, authz.ErrNotFound
	}
	return a, nil
}

func (s *stubAlerts) ResolveAlert(ctx context.Context, id, resolvedBy string) error {
	a, ok := s.rows[id]
	if !ok || a.Resolved {
		return authz.ErrNotFound
	}
	a.Resolved = true
	s.rows[id] = a
	s.resolved = append(s.resolved, id)
	return nil
}

type stubUsers struct {
	rows map[string]pg.User // keyed by lowercased email
}

func (s *stubUsers) GetUserByEmail(ctx context.Context, email string) (pg.User, error) {
	u, ok := s.rows[strings.ToLower(email)]
	if !ok {
		return pg.User{}, authz.ErrNotFound
	}
	return u, nil
}

type testEnv struct {
	api     *API
	batches *stubBatches
	alerts  *stubAlerts
	users   *stubUsers
}

func newTestEnv(t *testing.T, descs ...authz.Descriptor) *testEnv {
	t.Helper()
	auth.ResetSecretForTests()
	t.Setenv("MILLTRACE_AUTH_SECRET", "httpapi-test-secret")
	t.Cleanup(auth.ResetSecretForTests)

	proj := &stubProjections{descs: make(map[string]authz.Descriptor, len(descs))}
	for _, d := range descs {
		proj.descs[string(d.Type)+"/"+d.ID] = d
	}
	engine, err := authz.NewEngine(proj)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	batches := &stubBatches{rows: make(map[string]pg.Batch)}
	alerts := &stubAlerts{rows: make(map[string]pg.Alert)}
	users := &stubUsers{rows: make(map[string]pg.User)}
	api := New(ReadyProbe{}, "test", engine, batches, alerts, users)
	return &testEnv{api: api, batches: batches, alerts: alerts, users: users}
}

func newRequest(method, target string) (*http.Request, *httptest.ResponseRecorder) {
	return httptest.NewRequest(method, target, nil), httptest.NewRecorder()
}

// do performs an authenticated request against the full middleware stack.
func (e *testEnv) do(t *testing.T, sess authz.Session, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	token, err := auth.GenerateToken(sess, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	e.api.Handler().ServeHTTP(rr, req)
	return rr
}
