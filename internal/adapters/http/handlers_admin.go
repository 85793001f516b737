package web

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"convocation/internal/adapters/http/middleware"
	"convocation/internal/application/listutil"
	"convocation/internal/application/orchestrators"
	"convocation/internal/application/projections"
	accountDomain "convocation/internal/domain/account"
	auditDomain "convocation/internal/domain/audit"
	"convocation/internal/domain/document"
	"convocation/internal/domain/export"
	submissionDomain "convocation/internal/domain/submission"
)

// listFuncs build dashboard links that keep the current search, sort and page size.
var listFuncs = template.FuncMap{
	"pageQuery": func(p listutil.ListParams, page int) template.URL {
		q := p.Query()
		q.Del("page")
		if page > 1 {
			q.Set("page", strconv.Itoa(page))
		}
		return template.URL("?" + q.Encode())
	},
	"sortQuery": func(p listutil.ListParams, col string) template.URL {
		q := p.Query()
		q.Del("page")
		dir := "asc"
		if p.Sort == col && p.Dir == "asc" {
			dir = "desc"
		}
		q.Set("sort", col)
		q.Set("dir", dir)
		return template.URL("?" + q.Encode())
	},
	"perPageOptions": func() []int { return listutil.PerPageOptions },
}

// loginView is the data for login.html.
type loginView struct {
	Title  string
	Email  string
	Errors accountDomain.LoginErrors
	Error  string
}

// handleLogin handles GET (form) and POST (sign in) for /admin/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, go straight to the dashboard
		if middleware.IsAdmin(r.Context()) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, http.StatusOK, "login.html", loginView{Title: "Admin Login"})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		view := loginView{Title: "Admin Login", Email: r.PostForm.Get("email")}
		password := r.PostForm.Get("password")

		if view.Errors = accountDomain.ValidateLogin(view.Email, password); !view.Errors.Empty() {
			renderTemplate(w, r, http.StatusUnprocessableEntity, "login.html", view)
			return
		}

		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
			Now:          timeNow,
		}
		result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{Email: view.Email, Password: password}, deps)
		if err != nil {
			if errors.Is(err, orchestrators.ErrInvalidCredentials) || errors.Is(err, orchestrators.ErrAccountLocked) {
				view.Error = err.Error()
				recordFailedLogin(r, view.Email, err.Error())
				renderTemplate(w, r, http.StatusUnauthorized, "login.html", view)
				return
			}
			internalError(w, err)
			return
		}

		token, err := sessions.Create(result.AccountID, result.Email, result.Role)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)
		r = r.WithContext(middleware.ContextWithSession(r.Context(), middleware.Session{
			AccountID: result.AccountID, Email: result.Email, Role: result.Role,
		}))
		recordAudit(r, auditDomain.CategoryAuth, auditDomain.ActionLogin, result.AccountID, "signed in")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /admin/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if token := middleware.SessionToken(r); token != "" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			recordAudit(r, auditDomain.CategoryAuth, auditDomain.ActionLogout, "", "signed out")
		}
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// dashboardView is the data for admin_dashboard.html.
type dashboardView struct {
	Title   string
	Result  projections.GetDashboardResult
	Layouts []string
	Layout  string // the configured default
}

// handleAdminDashboard handles GET /admin
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	query := projections.GetDashboardQuery{
		Params: listutil.ParseListParams(r.URL.Query(), projections.DashboardSortColumns),
		Now:    timeNow(),
	}
	result, err := projections.QueryGetDashboard(r.Context(), query, projections.GetDashboardDeps{
		SubmissionStore: stores.SubmissionStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin_dashboard.html", dashboardView{
		Title:   "Leadership Applications",
		Result:  result,
		Layouts: export.ValidLayouts,
		Layout:  services.Assembler.Layout(),
	})
}

// handleAdminExport handles GET /admin/export?layout=
func handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deps := orchestrators.ExportReportDeps{
		Submissions: stores.SubmissionStore,
		Assembler:   services.Assembler,
		Now:         timeNow,
	}
	art, err := orchestrators.ExecuteExportReport(r.Context(), orchestrators.ExportReportInput{
		Layout: r.URL.Query().Get("layout"),
	}, deps)
	if err != nil {
		if errors.Is(err, export.ErrUnknownLayout) {
			renderError(w, r, http.StatusBadRequest, err.Error(), "/admin")
			return
		}
		renderError(w, r, http.StatusInternalServerError, "Failed to generate PDF report. Please try again.", "/admin")
		return
	}

	recordAudit(r, auditDomain.CategoryExport, auditDomain.ActionExport, art.Metadata.Layout,
		strconv.Itoa(art.Metadata.RecordCount)+" applications, "+strconv.Itoa(art.Pages)+" pages")

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", art.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(art.Data); err != nil {
		slog.Warn("report_write_failed", "error", err.Error())
	}
}

// handleAdminDocument handles GET /admin/documents?id=<submission>
func handleAdminDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	doc, err := projections.QueryGetDocument(r.Context(), id, projections.GetDocumentDeps{
		SubmissionStore: stores.SubmissionStore,
		DocumentStore:   stores.Documents,
	})
	switch {
	case errors.Is(err, submissionDomain.ErrNotFound), errors.Is(err, document.ErrMissing):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case errors.Is(err, document.ErrBadKey):
		slog.Warn("document_bad_key", "submission_id", id)
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case err != nil:
		internalError(w, err)
		return
	}
	defer doc.Body.Close()
	recordAudit(r, auditDomain.CategoryDocument, auditDomain.ActionDownload, id, doc.Filename)

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Cache-Control", "private, no-store")
	if _, err := io.Copy(w, doc.Body); err != nil {
		slog.Warn("document_write_failed", "submission_id", id, "error", err.Error())
	}
}
