package httpapi

import (
	"errors"
	"net/http"

	"milltrace.org/internal/authz"
	"milltrace.org/internal/obs"
	"milltrace.org/internal/store/pg"
)

func (a *API) ListAlerts(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if !authz.HasPermission(sess.Role, authz.PermAlertView) {
		obs.RecordDecision(string(authz.ResourceAlert), "denied")
		respondError(w, r, http.StatusForbidden, "forbidden")
		return
	}
	scope := authz.BuildScope(sess, authz.Filter{})
	if scope.MatchNone {
		respondAuthzError(w, r, authz.ResourceAlert, authz.ErrDenied)
		return
	}
	alerts, err := a.alerts.ListAlerts(r.Context(), scope, limitParam(r))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	// The scope filter cannot see recipients or escalation chains, so the
	// coarse result is re-checked row by row before anything is exposed.
	// A row deleted between the list query and its re-check is skipped,
	// not an error.
	if !sess.IsAdmin() {
		visible := make([]pg.Alert, 0, len(alerts))
		for _, alert := range alerts {
			_, err := a.engine.Authorize(r.Context(), sess, authz.ResourceAlert, alert.ID)
			if errors.Is(err, authz.ErrDenied) || errors.Is(err, authz.ErrNotFound) {
				continue
			}
			if err != nil {
				respondError(w, r, http.StatusInternalServerError, "internal error")
				return
			}
			visible = append(visible, alert)
		}
		alerts = visible
	}
	obs.RecordDecision(string(authz.ResourceAlert), "allowed")
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (a *API) GetAlert(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if !authz.HasPermission(sess.Role, authz.PermAlertView) {
		obs.RecordDecision(string(authz.ResourceAlert), "denied")
		respondError(w, r, http.StatusForbidden, "forbidden")
		return
	}
	if _, err := a.engine.Authorize(r.Context(), sess, authz.ResourceAlert, id); err != nil {
		respondAuthzError(w, r, authz.ResourceAlert, err)
		return
	}
	alert, err := a.alerts.GetAlert(r.Context(), id)
	if err != nil {
		respondAuthzError(w, r, authz.ResourceAlert, err)
		return
	}
	obs.RecordDecision(string(authz.ResourceAlert), "allowed")
	writeJSON(w, http.StatusOK, alert)
}

// ResolveAlert gates on alert.resolve plus the recipient narrowing of
// Authorize. The generic ownership rule of AuthorizeModify does not apply
// here: an alert belongs to its recipients, which Authorize already checks.
func (a *API) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if !authz.HasPermission(sess.Role, authz.PermAlertResolve) {
		obs.RecordDecision(string(authz.ResourceAlert), "denied")
		respondError(w, r, http.StatusForbidden, "forbidden")
		return
	}
	if _, err := a.engine.Authorize(r.Context(), sess, authz.ResourceAlert, id); err != nil {
		respondAuthzError(w, r, authz.ResourceAlert, err)
		return
	}
	if err := a.alerts.ResolveAlert(r.Context(), id, sess.UserID); err != nil {
		respondAuthzError(w, r, authz.ResourceAlert, err)
		return
	}
	obs.RecordDecision(string(authz.ResourceAlert), "allowed")
	writeJSON(w, http.StatusOK, map[string]any{"status": "resolved"})
}
