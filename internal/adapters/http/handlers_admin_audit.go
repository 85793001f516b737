package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"convocation/internal/adapters/http/middleware"
	auditStore "convocation/internal/adapters/storage/audit"
	auditDomain "convocation/internal/domain/audit"
)

// recordAudit appends an event for the signed-in admin. A failure to record
// is logged and never fails the request it describes.
func recordAudit(r *http.Request, category auditDomain.Category, action auditDomain.Action, resourceID, desc string) {
	if stores.AuditStore == nil {
		return
	}
	e, err := auditDomain.NewEvent(generateID(), timeNow(), category, action)
	if err != nil {
		slog.Warn("audit_event_invalid", "action", string(action), "error", err.Error())
		return
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		e = e.WithActor(sess.AccountID, sess.Email)
	}
	e = e.WithResource(resourceID).
		WithDescription(desc).
		WithRequest(middleware.ClientIP(r), r.UserAgent())
	saveAudit(r, e)
}

// recordFailedLogin stores a rejected sign-in against the attempted email.
func recordFailedLogin(r *http.Request, email, reason string) {
	if stores.AuditStore == nil {
		return
	}
	e, err := auditDomain.NewEvent(generateID(), timeNow(), auditDomain.CategoryAuth, auditDomain.ActionLoginFailed)
	if err != nil {
		return
	}
	e = e.WithActor("", email).
		WithSeverity(auditDomain.SeverityWarning).
		WithDescription(reason).
		WithRequest(middleware.ClientIP(r), r.UserAgent())
	saveAudit(r, e)
}

func saveAudit(r *http.Request, e auditDomain.Event) {
	if err := stores.AuditStore.Save(r.Context(), e); err != nil {
		slog.Error("audit_save_failed", "action", string(e.Action), "error", err.Error())
	}
}

// auditView is the data for admin_audit.html.
type auditView struct {
	Title      string
	Events     []auditDomain.Event
	Category   string
	Action     string
	Limit      int
	Categories []auditDomain.Category
}

// handleAdminAudit renders the admin audit trail (GET /admin/audit)
// PRE: User must be authenticated as admin
// POST: Renders at most limit events, newest first, with optional filters
func handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if stores.AuditStore == nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	filter := auditStore.Filter{
		Category: auditDomain.Category(q.Get("category")),
		Action:   auditDomain.Action(q.Get("action")),
		ActorID:  q.Get("actor_id"),
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	limit = auditDomain.ClampLimit(limit)

	events, err := stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, events)
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin_audit.html", auditView{
		Title:    "Audit Trail",
		Events:   events,
		Category: string(filter.Category),
		Action:   string(filter.Action),
		Limit:    limit,
		Categories: []auditDomain.Category{
			auditDomain.CategoryAuth, auditDomain.CategoryExport,
			auditDomain.CategoryDocument, auditDomain.CategoryOutbox,
		},
	})
}
