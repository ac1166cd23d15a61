package httpapi

import (
	"context"
	"net/http"
	"time"

	"milltrace.org/internal/authz"
	"milltrace.org/internal/obs"
	"milltrace.org/internal/store/pg"
)

// BatchStore is the batch persistence surface the handlers need.
type BatchStore interface {
	ListBatches(ctx context.Context, scope authz.Filter, limit int) ([]pg.Batch, error)
	GetBatch(ctx context.Context, id string) (pg.Batch, error)
	CreateBatch(ctx context.Context, b pg.Batch) (pg.Batch, error)
	UpdateBatchFields(ctx context.Context, id string, fields map[string]any) (pg.Batch, error)
}

// AlertStore is the alert persistence surface the handlers need.
type AlertStore interface {
	ListAlerts(ctx context.Context, scope authz.Filter, limit int) ([]pg.Alert, error)
	GetAlert(ctx context.Context, id string) (pg.Alert, error)
	ResolveAlert(ctx context.Context, id, resolvedBy string) error
}

// UserStore is the account lookup surface the token handler needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (pg.User, error)
}

// ReadyProbe checks a dependency for the readiness endpoint.
type ReadyProbe struct {
	Pinger interface {
		Ping(ctx context.Context) error
	}
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Pinger == nil {
		return nil
	}
	return rp.Pinger.Ping(ctx)
}

// API is the HTTP layer of the portal.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string
	engine     *authz.Engine
	batches    BatchStore
	alerts     AlertStore
	users      UserStore
}

func New(rp ReadyProbe, version string, engine *authz.Engine, batches BatchStore, alerts AlertStore, users UserStore) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		engine:     engine,
		batches:    batches,
		alerts:     alerts,
		users:      users,
	}

	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /readyz", a.Ready)
	a.mux.HandleFunc("GET /v1/info", a.Info)

	// Credentials in, session token out.
	a.mux.HandleFunc("POST /v1/auth/token", a.IssueToken)

	// Read-only registry access for UI callers: what can each role do.
	a.mux.HandleFunc("GET /v1/authz/roles", a.ListRoles)
	a.mux.HandleFunc("GET /v1/authz/roles/{name}", a.GetRole)

	a.mux.HandleFunc("GET /v1/batches", a.ListBatches)
	a.mux.HandleFunc("POST /v1/batches", a.CreateBatch)
	a.mux.HandleFunc("GET /v1/batches/{id}", a.GetBatch)
	a.mux.HandleFunc("PATCH /v1/batches/{id}", a.PatchBatch)

	a.mux.HandleFunc("GET /v1/alerts", a.ListAlerts)
	a.mux.HandleFunc("GET /v1/alerts/{id}", a.GetAlert)
	a.mux.HandleFunc("POST /v1/alerts/{id}/resolve", a.ResolveAlert)

	// Prometheus metrics
	a.mux.Handle("GET /metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware stack around the mux.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = a.withAuth(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "milltrace-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "milltrace-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

func (a *API) ListRoles(w http.ResponseWriter, r *http.Request) {
	type roleView struct {
		Name        authz.Role         `json:"name"`
		Level       int                `json:"level"`
		MillScoped  bool               `json:"mill_scoped"`
		Permissions []authz.Permission `json:"permissions"`
	}
	defs := authz.Roles()
	out := make([]roleView, 0, len(defs))
	for _, def := range defs {
		out = append(out, roleView{
			Name:        def.Name,
			Level:       def.Level,
			MillScoped:  def.MillScoped,
			Permissions: authz.PermissionsOf(def.Name),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": out})
}

func (a *API) GetRole(w http.ResponseWriter, r *http.Request) {
	name := authz.Role(r.PathValue("name"))
	def, ok := authz.Definition(name)
	if !ok {
		respondError(w, r, http.StatusNotFound, "unknown role")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        def.Name,
		"level":       def.Level,
		"mill_scoped": def.MillScoped,
		"permissions": authz.PermissionsOf(def.Name),
	})
}
