package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"convocation/internal/adapters/email"
	"convocation/internal/domain/export"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Defaults applied when a variable is unset.
const (
	DefaultAddr          = ":8080"
	DefaultDBPath        = "convocation.db"
	DefaultUploadDir     = "uploads"
	DefaultEmailFrom     = "TLBC Convocation <noreply@tlbc-convocation.org>"
	DefaultSESRegion     = "us-east-1"
	DefaultSlowQuery     = 50 * time.Millisecond
	DefaultSlowRequest   = 200 * time.Millisecond
	DefaultOutboxPoll    = time.Minute
	DefaultRateLimit     = 10
	csrfKeyBytes         = 32
	envPrefix            = "CONVOCATION_"
	minAdminPasswordSize = 12
)

// Configuration errors.
var (
	ErrBadCSRFKey       = errors.New("CONVOCATION_CSRF_KEY must be 64 hex characters (32 bytes)")
	ErrMissingCSRFKey   = errors.New("CONVOCATION_CSRF_KEY is required in production")
	ErrBadProvider      = errors.New("CONVOCATION_EMAIL_PROVIDER must be one of: resend, ses, noop")
	ErrMissingResendKey = errors.New("CONVOCATION_RESEND_KEY is required for the resend provider")
	ErrWeakAdminPass    = errors.New("CONVOCATION_ADMIN_PASSWORD must be at least 12 characters")
)

// Config is the process configuration, read once at startup.
type Config struct {
	Addr        string
	DBPath      string
	Env         string
	ContentDir  string // optional directory of Markdown pages overriding the built-in ones
	UploadDir   string
	CSRFKey     []byte
	CSRFRandom  bool     // true when CSRFKey was generated for this process
	Origins     []string // extra hosts allowed to post forms, e.g. "localhost:8080"
	RateLimit   int      // requests per second per client
	SlowQuery   time.Duration
	SlowRequest time.Duration
	OutboxPoll  time.Duration
	Admin       AdminConfig
	Report      ReportConfig
	Email       EmailConfig
}

// AdminConfig seeds the first admin account.
type AdminConfig struct {
	Email    string
	Password string
}

// ReportConfig configures the PDF export.
type ReportConfig struct {
	Layout string
	Title  string
}

// EmailConfig selects and configures the outgoing mail provider.
type EmailConfig struct {
	Provider  string
	ResendKey string
	SESRegion string
	From      string
	Office    []string // recipients of contact notifications
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// Load reads an optional .env file and then the environment.
// PRE: none
// POST: Returns a validated Config, or an error naming the first bad variable
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Variables already set in the process
// take precedence over .env, since godotenv never overrides.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(name, fallback string) string {
		if v := strings.TrimSpace(getenv(envPrefix + name)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Addr:       get("ADDR", DefaultAddr),
		DBPath:     get("DB", DefaultDBPath),
		Env:        get("ENV", EnvDevelopment),
		ContentDir: get("CONTENT_DIR", ""),
		UploadDir:  get("UPLOAD_DIR", DefaultUploadDir),
		Origins:    splitList(get("TRUSTED_ORIGINS", "")),
		Admin: AdminConfig{
			Email:    get("ADMIN_EMAIL", ""),
			Password: getenv(envPrefix + "ADMIN_PASSWORD"),
		},
		Report: ReportConfig{
			Layout: get("REPORT_LAYOUT", export.LayoutDetailed),
			Title:  get("REPORT_TITLE", ""),
		},
		Email: EmailConfig{
			Provider:  get("EMAIL_PROVIDER", ""),
			ResendKey: get("RESEND_KEY", ""),
			SESRegion: get("SES_REGION", DefaultSESRegion),
			From:      get("EMAIL_FROM", DefaultEmailFrom),
			Office:    splitList(get("OFFICE_EMAIL", "")),
		},
	}

	var err error
	if cfg.SlowQuery, err = millis(get("SLOW_QUERY_MS", ""), DefaultSlowQuery); err != nil {
		return nil, fmt.Errorf("CONVOCATION_SLOW_QUERY_MS: %w", err)
	}
	if cfg.SlowRequest, err = millis(get("SLOW_REQUEST_MS", ""), DefaultSlowRequest); err != nil {
		return nil, fmt.Errorf("CONVOCATION_SLOW_REQUEST_MS: %w", err)
	}
	if cfg.OutboxPoll, err = time.ParseDuration(get("OUTBOX_POLL", DefaultOutboxPoll.String())); err != nil || cfg.OutboxPoll <= 0 {
		return nil, fmt.Errorf("CONVOCATION_OUTBOX_POLL: invalid duration")
	}
	if cfg.RateLimit, err = strconv.Atoi(get("RATE_LIMIT", strconv.Itoa(DefaultRateLimit))); err != nil || cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("CONVOCATION_RATE_LIMIT: must be a positive integer")
	}

	if cfg.Email.Provider == "" {
		// Resend when a key is present, otherwise nothing leaves the process.
		cfg.Email.Provider = email.ProviderNoop
		if cfg.Email.ResendKey != "" {
			cfg.Email.Provider = email.ProviderResend
		}
	}

	if cfg.CSRFKey, cfg.CSRFRandom, err = csrfKey(get("CSRF_KEY", ""), cfg.Env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CSRFRandom {
		slog.Warn("config_random_csrf_key", "hint", "set CONVOCATION_CSRF_KEY so sessions survive restarts")
	}
	return cfg, nil
}

// Validate checks cross-field rules.
func (c *Config) Validate() error {
	if !export.IsValidLayout(c.Report.Layout) {
		return fmt.Errorf("CONVOCATION_REPORT_LAYOUT: %w", export.ErrUnknownLayout)
	}
	switch c.Email.Provider {
	case email.ProviderResend:
		if c.Email.ResendKey == "" {
			return ErrMissingResendKey
		}
	case email.ProviderSES, email.ProviderNoop:
	default:
		return ErrBadProvider
	}
	if c.Admin.Email != "" && len(c.Admin.Password) < minAdminPasswordSize {
		return ErrWeakAdminPass
	}
	return nil
}

// csrfKey decodes keyHex, or generates a random key outside production.
func csrfKey(keyHex, env string) ([]byte, bool, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != csrfKeyBytes {
			return nil, false, ErrBadCSRFKey
		}
		return key, false, nil
	}
	if env == EnvProduction {
		return nil, false, ErrMissingCSRFKey
	}
	key := make([]byte, csrfKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate CSRF key: %w", err)
	}
	return key, true, nil
}

func millis(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive number of milliseconds, got %q", v)
	}
	return time.Duration(n) * time.Millisecond, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
