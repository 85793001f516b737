package web

import (
	"errors"
	"net/http"
	"strings"

	"convocation/internal/application/projections"
	auditDomain "convocation/internal/domain/audit"
	"convocation/internal/domain/outbox"
)

// outboxView is the data for admin_outbox.html.
type outboxView struct {
	Title   string
	Entries []projections.FailedNotification
}

// handleAdminOutbox handles admin endpoints for notification emails that could not be delivered.
// Routes: GET /admin/outbox (list failed entries), POST /admin/outbox/:id/retry (manual retry), POST /admin/outbox/:id/abandon
func handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if r.URL.Path != "/admin/outbox" {
			http.NotFound(w, r)
			return
		}
		entries, err := projections.QueryGetFailedNotifications(ctx, projections.GetFailedNotificationsDeps{
			OutboxStore: stores.OutboxStore,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		if isHTMLRequest(r) {
			renderTemplate(w, r, http.StatusOK, "admin_outbox.html", outboxView{Title: "Undelivered Notifications", Entries: entries})
			return
		}
		writeJSON(w, http.StatusOK, entries)

	case "POST":
		// Extract entry ID from path: /admin/outbox/:id/:action
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[0] != "admin" || parts[1] != "outbox" {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		entryID := parts[2]
		action := parts[3]

		var err error
		var status string
		switch action {
		case "retry":
			err = services.Outbox.ProcessSingle(ctx, entryID)
			status = "retry triggered"
		case "abandon":
			err = services.Outbox.AbandonEntry(ctx, entryID)
			status = "abandoned"
		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
			return
		}

		switch {
		case errors.Is(err, outbox.ErrNotFound):
			http.Error(w, "outbox entry not found", http.StatusNotFound)
			return
		case errors.Is(err, outbox.ErrTerminal):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case err != nil:
			internalError(w, err)
			return
		}

		recordAudit(r, auditDomain.CategoryOutbox, auditDomain.Action(action), entryID, status)

		if isHTMLRequest(r) {
			http.Redirect(w, r, "/admin/outbox", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
