package web

import (
	"net/http"
	"strings"

	"convocation/internal/adapters/http/middleware"
	"convocation/internal/domain/form"
	"convocation/internal/metrics"
)

// route is one registered path. Admin routes sit behind RequireAdmin.
type route struct {
	path    string
	handler http.Handler
	admin   bool
}

// knownRoutes holds every registered path, used to bound metric labels.
var knownRoutes = map[string]bool{}

func routes() []route {
	rs := []route{
		{path: "/", handler: http.HandlerFunc(handleHome)},
		{path: "/gallery", handler: handlePage("gallery")},
		{path: "/healthz", handler: http.HandlerFunc(handleHealth)},
		{path: "/metrics", handler: metrics.Handler()},
		{path: "/admin/login", handler: http.HandlerFunc(handleLogin)},
		{path: "/admin/logout", handler: http.HandlerFunc(handleLogout)},
		{path: "/admin", handler: http.HandlerFunc(handleAdminDashboard), admin: true},
		{path: "/admin/export", handler: http.HandlerFunc(handleAdminExport), admin: true},
		{path: "/admin/documents", handler: http.HandlerFunc(handleAdminDocument), admin: true},
		{path: "/admin/audit", handler: http.HandlerFunc(handleAdminAudit), admin: true},
		{path: "/admin/outbox", handler: http.HandlerFunc(handleAdminOutbox), admin: true},
		{path: "/admin/outbox/", handler: http.HandlerFunc(handleAdminOutbox), admin: true},
	}
	for _, schema := range form.All {
		rs = append(rs, route{path: "/" + schema.Name, handler: handleForm(schema)})
	}
	return rs
}

func registerRoutes(mux *http.ServeMux) {
	for _, rt := range routes() {
		h := rt.handler
		if rt.admin {
			h = middleware.RequireAdmin(h)
		}
		mux.Handle(rt.path, h)
		knownRoutes[rt.path] = true
	}
}

// routeLabel maps a request path to the route it was served by.
func routeLabel(r *http.Request) string {
	p := r.URL.Path
	if strings.HasPrefix(p, "/admin/outbox/") {
		return "/admin/outbox/:id"
	}
	if knownRoutes[p] {
		return p
	}
	return "other"
}
