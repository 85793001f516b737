package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"convocation/internal/adapters/http/middleware"
)

// newTestMux builds the full middleware stack around the current test stores.
func newTestMux(t *testing.T) http.Handler {
	t.Helper()
	s, svc := stores, services
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	return NewMux(s, svc, Options{
		CSRFKey:     []byte(strings.Repeat("k", 32)),
		RateLimit:   1000,
		SlowRequest: time.Second,
		Stop:        stop,
	})
}

func TestNewMux_PublicRoutes(t *testing.T) {
	setupTest(t)
	mux := newTestMux(t)

	for _, path := range []string{"/", "/gallery", "/registration", "/partnership", "/leadership", "/contact", "/admin/login", "/healthz", "/metrics", "/static/style.css"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
			if rr.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rr.Code)
			}
		})
	}
}

func TestNewMux_AdminRoutesRequireLogin(t *testing.T) {
	setupTest(t)
	mux := newTestMux(t)

	for _, path := range []string{"/admin", "/admin/export", "/admin/documents?id=x", "/admin/outbox", "/admin/audit"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
			if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != middleware.LoginPath {
				t.Errorf("response = %d %q, want redirect to login", rr.Code, rr.Header().Get("Location"))
			}
		})
	}
}

func TestNewMux_AdminSessionCookie(t *testing.T) {
	setupTest(t)
	mux := newTestMux(t)
	token, err := sessions.Create("acct-1", "admin@example.org", "admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "convocation_session", Value: token})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestNewMux_SecurityHeaders(t *testing.T) {
	setupTest(t)
	mux := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options not set")
	}
	if !strings.Contains(rr.Header().Get("Content-Security-Policy"), "default-src 'self'") {
		t.Error("CSP not set")
	}
}

func TestNewMux_FormPostWithoutCSRFToken(t *testing.T) {
	env := setupTest(t)
	mux := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, formRequest("/contact", contactForm().Encode()))
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
	if len(env.subs.subs) != 0 {
		t.Error("submission stored without a CSRF token")
	}
}

func TestNewMux_FormRendersCSRFToken(t *testing.T) {
	setupTest(t)
	mux := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/contact", nil))
	body := rr.Body.String()
	if strings.Contains(body, `name="gorilla.csrf.Token" value=""`) {
		t.Error("CSRF token not rendered")
	}
}

func TestRouteLabel(t *testing.T) {
	setupTest(t)
	newTestMux(t)

	tests := map[string]string{
		"/":                           "/",
		"/leadership":                 "/leadership",
		"/admin/outbox/abc-123/retry": "/admin/outbox/:id",
		"/wp-login.php":               "other",
	}
	for path, want := range tests {
		if got := routeLabel(httptest.NewRequest("GET", path, nil)); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}
