package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	"convocation/internal/adapters/content"
	"convocation/internal/adapters/http/middleware"
	"convocation/internal/domain/form"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// renderTemplate renders templateName inside the site layout. Output is
// buffered so a template error never leaves a half-written page.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"csrfToken":    func() string { return csrf.Token(r) },
		"isAdmin":      func() bool { return middleware.IsAdmin(r.Context()) },
		"isLoggedIn":   func() bool { return loggedIn },
		"currentEmail": func() string { return sess.Email },
		"forms":        func() []*form.Schema { return form.All },
		"year":         func() int { return timeNow().Year() },
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
	}
	for k, v := range listFuncs {
		funcMap[k] = v
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(assets, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorView is the data for error.html.
type errorView struct {
	Title   string
	Message string
	Back    string
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message, back string) {
	renderTemplate(w, r, status, "error.html", errorView{
		Title:   http.StatusText(status),
		Message: message,
		Back:    back,
	})
}

// pageView is the data for page.html.
type pageView struct {
	Title string
	Page  content.Page
}

// handleHome serves the landing page and is the catch-all for unknown paths.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.", "/")
		return
	}
	handlePage("home")(w, r)
}

// handlePage serves one Markdown page by slug.
func handlePage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" && r.Method != "HEAD" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		page, ok := services.Pages.Page(slug)
		if !ok {
			renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.", "/")
			return
		}
		renderTemplate(w, r, http.StatusOK, "page.html", pageView{Title: page.Title, Page: page})
	}
}

// handleHealth handles GET /healthz
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if services.Health != nil {
		if err := services.Health(r.Context()); err != nil {
			slog.Error("health_check_failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
