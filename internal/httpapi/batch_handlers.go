package httpapi

import (
	"net/http"
	"strconv"

	"milltrace.org/internal/auth"
	"milltrace.org/internal/authz"
	"milltrace.org/internal/obs"
	"milltrace.org/internal/store/pg"
)

func sessionFrom(w http.ResponseWriter, r *http.Request) (authz.Session, bool) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return authz.Session{}, false
	}
	return sess, true
}

func limitParam(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (a *API) ListBatches(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if !authz.HasPermission(sess.Role, authz.PermBatchView) {
		obs.RecordDecision(string(authz.ResourceBatch), "denied")
		respondError(w, r, http.StatusForbidden, "forbidden")
		return
	}
	scope := authz.BuildScope(sess, authz.Filter{})
	if scope.MatchNone {
		// Fail closed: a poisoned scope is a denial, not an empty result.
		respondAuthzError(w, r, authz.ResourceBatch, authz.ErrDenied)
		return
	}
	batches, err := a.batches.ListBatches(r.Context(), scope, limitParam(r))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	obs.RecordDecision(string(authz.ResourceBatch), "allowed")
	writeJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

func (a *API) CreateBatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if !authz.HasPermission(sess.Role, authz.PermBatchCreate) {
		obs.RecordDecision(string(authz.ResourceBatch), "denied")
		respondError(w, r, http.StatusForbidden, "forbidden")
		return
	}

	var req struct {
		MillID         string `json:"mill_id"`
		Product        string `json:"product"`
		FortificantLot string `json:"fortificant_lot"`
		Notes          string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Product == "" || req.MillID == "" {
		respondError(w, r, http.StatusBadRequest, "product and mill_id are required")
		return
	}
	if !authz.CanAccessMill(sess.Role, sess.MillID, req.MillID) {
		respondAuthzError(w, r, authz.ResourceBatch, authz.ErrDenied)
		return
	}
	if req.FortificantLot != "" && !authz.CanAccessField(sess, authz.ResourceBatch, "fortificant_lot", authz.IntentWrite) {
		respondAuthzError(w, r, authz.ResourceBatch, authz.ErrDenied)
		return
	}

	batch, err := a.batches.CreateBatch(r.Context(), pg.Batch{
		TenantID:       sess.TenantID,
		MillID:         req.MillID,
		Product:        req.Product,
		FortificantLot: req.FortificantLot,
		Notes:          req.Notes,
		CreatedBy:      sess.UserID,
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	obs.RecordDecision(string(authz.ResourceBatch), "allowed")
	writeJSON(w, http.StatusCreated, batch)
}

func (a *API) GetBatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if !authz.HasPermission(sess.Role, authz.PermBatchView) {
		obs.RecordDecision(string(authz.ResourceBatch), "denied")
		respondError(w, r, http.StatusForbidden, "forbidden")
		return
	}
	if _, err := a.engine.Authorize(r.Context(), sess, authz.ResourceBatch, id); err != nil {
		respondAuthzError(w, r, authz.ResourceBatch, err)
		return
	}
	batch, err := a.batches.GetBatch(r.Context(), id)
	if err != nil {
		respondAuthzError(w, r, authz.ResourceBatch, err)
		return
	}
	obs.RecordDecision(string(authz.ResourceBatch), "allowed")
	writeJSON(w, http.StatusOK, batch)
}

func (a *API) PatchBatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil || len(fields) == 0 {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := a.engine.AuthorizeModify(r.Context(), sess, authz.ResourceBatch, id, authz.PermBatchEdit); err != nil {
		respondAuthzError(w, r, authz.ResourceBatch, err)
		return
	}
	// Field mask: every field of a partial update is checked individually,
	// independent of the operation-level grant above.
	for name := range fields {
		if !authz.CanAccessField(sess, authz.ResourceBatch, name, authz.IntentWrite) {
			respondAuthzError(w, r, authz.ResourceBatch, authz.ErrDenied)
			return
		}
	}

	batch, err := a.batches.UpdateBatchFields(r.Context(), id, fields)
	if err != nil {
		respondAuthzError(w, r, authz.ResourceBatch, err)
		return
	}
	obs.RecordDecision(string(authz.ResourceBatch), "allowed")
	writeJSON(w, http.StatusOK, batch)
}
