package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"convocation/internal/adapters/blob"
	"convocation/internal/adapters/content"
	emailPkg "convocation/internal/adapters/email"
	web "convocation/internal/adapters/http"
	"convocation/internal/adapters/storage"
	accountStore "convocation/internal/adapters/storage/account"
	auditStore "convocation/internal/adapters/storage/audit"
	outboxStorePkg "convocation/internal/adapters/storage/outbox"
	submissionStore "convocation/internal/adapters/storage/submission"
	"convocation/internal/application/orchestrators"
	"convocation/internal/config"
	"convocation/internal/domain/outbox"
	"convocation/internal/report"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if !cfg.IsProduction() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	timedDB := storage.NewTimedDB(db, cfg.SlowQuery)

	documents, err := blob.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to open upload directory: %v", err)
	}
	stores := &web.Stores{
		SubmissionStore: submissionStore.NewSQLiteStore(timedDB),
		AccountStore:    accountStore.NewSQLiteStore(timedDB),
		OutboxStore:     outboxStorePkg.NewSQLiteStore(timedDB),
		AuditStore:      auditStore.NewSQLiteStore(timedDB),
		Documents:       documents,
	}

	seedDeps := orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		GenerateID:   func() string { return uuid.New().String() },
		Now:          time.Now,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	pages, err := loadPages(cfg.ContentDir)
	if err != nil {
		log.Fatalf("failed to load pages: %v", err)
	}

	assembler, err := report.NewAssembler(cfg.Report.Title, cfg.Report.Layout)
	if err != nil {
		log.Fatalf("failed to configure report: %v", err)
	}

	sender, err := newSender(cfg)
	if err != nil {
		log.Fatalf("failed to configure email: %v", err)
	}
	slog.Info("email_sender_configured", "provider", sender.Provider(), "office", cfg.Email.Office)

	var notifier *orchestrators.ContactNotifier
	if len(cfg.Email.Office) > 0 {
		notifier = &orchestrators.ContactNotifier{
			Sender:     sender,
			Outbox:     stores.OutboxStore,
			To:         cfg.Email.Office,
			From:       cfg.Email.From,
			GenerateID: func() string { return uuid.New().String() },
			Now:        time.Now,
		}
	} else {
		slog.Warn("contact_notifications_disabled", "reason", "CONVOCATION_OFFICE_EMAIL is not set")
	}

	// Start outbox background worker for retrying undelivered notifications
	stop := make(chan struct{})
	defer close(stop)
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: sender, From: cfg.Email.From},
	}, time.Now)
	orchestrators.StartBackgroundWorker(processor, cfg.OutboxPoll, stop)

	mux := web.NewMux(stores, &web.Services{
		Pages:     pages,
		Assembler: assembler,
		Notifier:  notifier,
		Outbox:    processor,
		Health:    timedDB.Ping,
	}, web.Options{
		CSRFKey:        cfg.CSRFKey,
		Production:     cfg.IsProduction(),
		TrustedOrigins: cfg.Origins,
		RateLimit:      cfg.RateLimit,
		SlowRequest:    cfg.SlowRequest,
		Stop:           stop,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server_shutdown_failed", "error", err.Error())
		}
	}()

	log.Printf("Convocation %s starting on %s (env=%s, schema=%d, layout=%s)", version, cfg.Addr, cfg.Env, storage.LatestSchemaVersion(), assembler.Layout())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	slog.Info("server_stopped")
}

// loadPages returns the built-in pages, or the Markdown files in dir when set.
func loadPages(dir string) (*content.Library, error) {
	if dir == "" {
		return content.Default()
	}
	return content.Load(os.DirFS(dir))
}

// newSender builds the configured email provider.
func newSender(cfg *config.Config) (emailPkg.Sender, error) {
	switch cfg.Email.Provider {
	case emailPkg.ProviderResend:
		return emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From), nil
	case emailPkg.ProviderSES:
		return emailPkg.NewSESSender(context.Background(), cfg.Email.SESRegion, cfg.Email.From)
	default:
		if cfg.IsProduction() {
			slog.Warn("email_delivery_disabled", "reason", "noop provider in production")
		}
		return emailPkg.NewNoopSender(), nil
	}
}
