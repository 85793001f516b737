package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleHome(t *testing.T) {
	setupTest(t)

	rr := httptest.NewRecorder()
	handleHome(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Convocation 2025") {
		t.Error("home page content missing")
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandleHome_UnknownPath(t *testing.T) {
	setupTest(t)

	rr := httptest.NewRecorder()
	handleHome(rr, httptest.NewRequest("GET", "/no-such-page", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHandlePage(t *testing.T) {
	setupTest(t)

	rr := httptest.NewRecorder()
	handlePage("gallery")(rr, httptest.NewRequest("GET", "/gallery", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "<title>Gallery | TLBC Convocation</title>") {
		t.Error("page title missing")
	}

	rr = httptest.NewRecorder()
	handlePage("gallery")(rr, httptest.NewRequest("POST", "/gallery", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rr.Code)
	}

	rr = httptest.NewRecorder()
	handlePage("missing")(rr, httptest.NewRequest("GET", "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing page status = %d, want 404", rr.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	setupTest(t)

	tests := []struct {
		name   string
		health func(context.Context) error
		want   int
		status string
	}{
		{"no check", nil, http.StatusOK, "ok"},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK, "ok"},
		{"db down", func(context.Context) error { return errStoreDown }, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services.Health = tt.health
			rr := httptest.NewRecorder()
			handleHealth(rr, httptest.NewRequest("GET", "/healthz", nil))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tt.status {
				t.Errorf("status field = %q, want %q", body["status"], tt.status)
			}
		})
	}
}

func TestRenderTemplate_AdminNav(t *testing.T) {
	setupTest(t)

	rr := httptest.NewRecorder()
	handleHome(rr, authRequest("GET", "/", "", adminSession))
	body := rr.Body.String()
	if !strings.Contains(body, `href="/admin"`) || !strings.Contains(body, "admin@example.org") {
		t.Error("admin navigation missing for an admin session")
	}

	rr = httptest.NewRecorder()
	handleHome(rr, httptest.NewRequest("GET", "/", nil))
	if strings.Contains(rr.Body.String(), `action="/admin/logout"`) {
		t.Error("logout button shown to an anonymous visitor")
	}
}
