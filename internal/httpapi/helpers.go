package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"milltrace.org/internal/audit"
	"milltrace.org/internal/authz"
	"milltrace.org/internal/obs"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	body := map[string]any{"error": msg}
	if rid := requestIDFrom(r); rid != "" {
		body["request_id"] = rid
	}
	writeJSON(w, code, body)
}

// respondAuthzError maps an engine error onto the wire, records the decision
// metric and audits denials. The detailed denial reason stays in the logs;
// clients only see the status class.
func respondAuthzError(w http.ResponseWriter, r *http.Request, rt authz.ResourceType, err error) {
	switch {
	case errors.Is(err, authz.ErrNotFound):
		obs.RecordDecision(string(rt), "not_found")
		respondError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, authz.ErrDenied):
		obs.RecordDecision(string(rt), "denied")
		_ = audit.LogEvent(r.Context(), "authz.denied", map[string]any{
			"resource": string(rt),
			"reason":   err.Error(),
		})
		respondError(w, r, http.StatusForbidden, "forbidden")
	default:
		obs.RecordDecision(string(rt), "error")
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
