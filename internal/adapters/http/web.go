package web

import (
	"context"
	"embed"
	"net/http"
	"time"

	"convocation/internal/adapters/blob"
	"convocation/internal/adapters/content"
	"convocation/internal/adapters/http/middleware"
	accountStore "convocation/internal/adapters/storage/account"
	auditStore "convocation/internal/adapters/storage/audit"
	outboxStore "convocation/internal/adapters/storage/outbox"
	submissionStore "convocation/internal/adapters/storage/submission"
	"convocation/internal/application/orchestrators"
	"convocation/internal/domain/document"
	"convocation/internal/report"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Stores holds all storage dependencies.
type Stores struct {
	SubmissionStore submissionStore.Store
	AccountStore    accountStore.Store
	OutboxStore     outboxStore.Store
	AuditStore      auditStore.Store // nil disables the audit trail
	Documents       blob.Store
}

// Services holds the collaborators handlers use besides the stores.
type Services struct {
	Pages     *content.Library
	Assembler *report.Assembler
	Notifier  *orchestrators.ContactNotifier // nil disables contact emails
	Outbox    *orchestrators.OutboxProcessor
	Health    func(ctx context.Context) error // nil reports healthy
}

// Options configures the middleware stack.
type Options struct {
	CSRFKey        []byte // 32 bytes
	Production     bool
	TrustedOrigins []string
	RateLimit      int // requests per second per client IP
	SlowRequest    time.Duration
	Stop           <-chan struct{} // closes background sweepers
}

// maxRequestBody leaves room for form fields around the largest document.
const maxRequestBody = 2 * document.MaxSize

// Global stores instance (set by NewMux)
var stores *Stores

// Global services instance (set by NewMux)
var services *Services

// Global session store instance
var sessions *middleware.SessionStore

// NewMux wires HTTP handlers for the site and its admin area.
func NewMux(s *Stores, svc *Services, opts Options) http.Handler {
	stores = s
	services = svc
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.Production

	mux := http.NewServeMux()
	mux.Handle("/static/", http.FileServerFS(assets))
	registerRoutes(mux)

	rate := opts.RateLimit
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(rate, time.Second, opts.Stop)

	// Apply middleware: Timing -> RateLimit -> Auth -> MaxBody -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.Production, opts.TrustedOrigins),
		middleware.MaxBody(maxRequestBody),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(opts.SlowRequest, routeLabel),
	)
}
