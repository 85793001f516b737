package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"convocation/internal/adapters/http/middleware"
	"convocation/internal/domain/export"
)

func loginForm(email, password string) string {
	return url.Values{"email": {email}, "password": {password}}.Encode()
}

func TestHandleLogin_Get(t *testing.T) {
	setupTest(t)

	rr := httptest.NewRecorder()
	handleLogin(rr, httptest.NewRequest("GET", "/admin/login", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `name="password"`) {
		t.Error("login form missing")
	}

	rr = httptest.NewRecorder()
	handleLogin(rr, authRequest("GET", "/admin/login", "", adminSession))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/admin" {
		t.Errorf("logged-in GET = %d %q, want redirect to /admin", rr.Code, rr.Header().Get("Location"))
	}
}

func TestHandleLogin_Success(t *testing.T) {
	env := setupTest(t)
	env.seedAdmin(t)

	rr := httptest.NewRecorder()
	handleLogin(rr, formRequest("/admin/login", loginForm("Admin@Example.org", testAdminPassword)))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Location") != "/admin" {
		t.Errorf("Location = %q, want /admin", rr.Header().Get("Location"))
	}

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	sess, ok := sessions.Get(cookies[0].Value)
	if !ok {
		t.Fatal("session not stored")
	}
	if sess.AccountID != "acct-1" {
		t.Errorf("session account = %q", sess.AccountID)
	}
}

func TestHandleLogin_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     int
		message  string
	}{
		{"malformed email", "admin", testAdminPassword, http.StatusUnprocessableEntity, "Please enter a valid email address"},
		{"short password", "admin@example.org", "abc", http.StatusUnprocessableEntity, "Password must be at least 6 characters"},
		{"wrong password", "admin@example.org", "wrong password!", http.StatusUnauthorized, "invalid email or password"},
		{"unknown account", "nobody@example.org", testAdminPassword, http.StatusUnauthorized, "invalid email or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			env.seedAdmin(t)

			rr := httptest.NewRecorder()
			handleLogin(rr, formRequest("/admin/login", loginForm(tt.email, tt.password)))
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if !strings.Contains(rr.Body.String(), tt.message) {
				t.Errorf("body missing %q", tt.message)
			}
			if sessions.Len() != 0 {
				t.Error("session created for a rejected login")
			}
		})
	}
}

func TestHandleLogin_Lockout(t *testing.T) {
	env := setupTest(t)
	env.seedAdmin(t)

	for i := 0; i < 5; i++ {
		handleLogin(httptest.NewRecorder(), formRequest("/admin/login", loginForm("admin@example.org", "wrong password!")))
	}

	rr := httptest.NewRecorder()
	handleLogin(rr, formRequest("/admin/login", loginForm("admin@example.org", testAdminPassword)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "too many failed attempts") {
		t.Error("lockout message not shown")
	}
}

func TestHandleLogout(t *testing.T) {
	setupTest(t)
	token, err := sessions.Create("acct-1", "admin@example.org", "admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest("POST", "/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: "convocation_session", Value: token})
	rr := httptest.NewRecorder()
	handleLogout(rr, req)

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != middleware.LoginPath {
		t.Errorf("logout = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if _, ok := sessions.Get(token); ok {
		t.Error("session survived logout")
	}

	rr = httptest.NewRecorder()
	handleLogout(rr, httptest.NewRequest("GET", "/admin/logout", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rr.Code)
	}
}

func TestHandleAdminDashboard(t *testing.T) {
	env := setupTest(t)
	env.seedApplication("app-1", "Grace", "Okafor", time.Hour, map[string]string{"officeNow": "Choir Director"})
	env.seedApplication("app-2", "Samuel", "Adeyemi", 10*24*time.Hour, map[string]string{"achievements": "Led the 2024 outreach"})
	env.seedApplication("app-3", "Ruth", "Boateng", 2*time.Hour, map[string]string{"documentURL": "application-documents/Ruth_Boateng_1.pdf"})

	rr := httptest.NewRecorder()
	handleAdminDashboard(rr, authRequest("GET", "/admin", "", adminSession))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Grace Okafor", "Samuel Adeyemi", "Ruth Boateng", "Showing 1 to 3 of 3 entries", "/admin/export?layout=tabular", "/admin/documents?id=app-3"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestHandleAdminDashboard_Search(t *testing.T) {
	env := setupTest(t)
	env.seedApplication("app-1", "Grace", "Okafor", time.Hour, nil)
	env.seedApplication("app-2", "Samuel", "Adeyemi", 2*time.Hour, nil)

	rr := httptest.NewRecorder()
	handleAdminDashboard(rr, authRequest("GET", "/admin?q=adeyemi", "", adminSession))
	body := rr.Body.String()
	if strings.Contains(body, "Grace Okafor") {
		t.Error("search did not filter out Grace Okafor")
	}
	if !strings.Contains(body, "Samuel Adeyemi") || !strings.Contains(body, "Showing 1 to 1 of 1 entries") {
		t.Error("search result missing")
	}
}

func TestHandleAdminDashboard_StoreError(t *testing.T) {
	env := setupTest(t)
	env.subs.listErr = errStoreDown

	rr := httptest.NewRecorder()
	handleAdminDashboard(rr, authRequest("GET", "/admin", "", adminSession))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestHandleAdminExport(t *testing.T) {
	for _, layout := range []string{"", export.LayoutDetailed, export.LayoutTabular} {
		t.Run("layout="+layout, func(t *testing.T) {
			env := setupTest(t)
			env.seedApplication("app-1", "Grace", "Okafor", time.Hour, nil)
			env.seedApplication("app-2", "Samuel", "Adeyemi", 2*time.Hour, nil)

			rr := httptest.NewRecorder()
			handleAdminExport(rr, authRequest("GET", "/admin/export?layout="+layout, "", adminSession))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
				t.Errorf("Content-Type = %q", ct)
			}
			want := `attachment; filename="Leadership-Position-Applications-2025-06-14.pdf"`
			if cd := rr.Header().Get("Content-Disposition"); cd != want {
				t.Errorf("Content-Disposition = %q, want %q", cd, want)
			}
			if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
				t.Error("body is not a PDF")
			}
		})
	}
}

func TestHandleAdminExport_Errors(t *testing.T) {
	t.Run("unknown layout", func(t *testing.T) {
		setupTest(t)
		rr := httptest.NewRecorder()
		handleAdminExport(rr, authRequest("GET", "/admin/export?layout=poster", "", adminSession))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		env := setupTest(t)
		env.subs.listErr = errStoreDown
		rr := httptest.NewRecorder()
		handleAdminExport(rr, authRequest("GET", "/admin/export", "", adminSession))
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}
		if rr.Header().Get("Content-Disposition") != "" {
			t.Error("failed export still offered a download")
		}
		if !strings.Contains(rr.Body.String(), "Failed to generate PDF report. Please try again.") {
			t.Error("error message not shown")
		}
	})
}

// TestHandleAdminDocument_QuotedFilename verifies a key stored with a quote is escaped in the header.
func TestHandleAdminDocument_QuotedFilename(t *testing.T) {
	env := setupTest(t)
	key := `application-documents/Ada_Lovelace_1700000000000.pdf"x`
	env.seedApplication("app-1", "Ada", "Lovelace", time.Hour, map[string]string{"documentURL": key})
	env.blobs.files[key] = []byte("%PDF-1.4")

	rr := httptest.NewRecorder()
	handleAdminDocument(rr, authRequest("GET", "/admin/documents?id=app-1", "", adminSession))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	want := `inline; filename="Ada_Lovelace_1700000000000.pdf\"x"`
	if cd := rr.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("Content-Disposition = %q, want %q", cd, want)
	}
}

func TestHandleAdminDocument(t *testing.T) {
	env := setupTest(t)
	key := "application-documents/Grace_Okafor_1749893400000.pdf"
	env.seedApplication("app-1", "Grace", "Okafor", time.Hour, map[string]string{"documentURL": key})
	env.seedApplication("app-2", "Samuel", "Adeyemi", time.Hour, nil)
	env.seedApplication("app-3", "Ruth", "Boateng", time.Hour, map[string]string{"documentURL": "../../etc/passwd"})
	env.seedApplication("app-4", "Esther", "Nwosu", time.Hour, map[string]string{"documentURL": "application-documents/gone.pdf"})
	env.blobs.files[key] = []byte("%PDF-1.4 cv")

	rr := httptest.NewRecorder()
	handleAdminDocument(rr, authRequest("GET", "/admin/documents?id=app-1", "", adminSession))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
	}
	if rr.Body.String() != "%PDF-1.4 cv" {
		t.Errorf("body = %q", rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `inline; filename=Grace_Okafor_1749893400000.pdf` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"missing id", "/admin/documents", http.StatusBadRequest},
		{"unknown application", "/admin/documents?id=nope", http.StatusNotFound},
		{"no document", "/admin/documents?id=app-2", http.StatusNotFound},
		{"unsafe key", "/admin/documents?id=app-3", http.StatusNotFound},
		{"file gone", "/admin/documents?id=app-4", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleAdminDocument(rr, authRequest("GET", tt.url, "", adminSession))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
