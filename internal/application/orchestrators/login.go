package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"convocation/internal/domain/account"
	"convocation/internal/metrics"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID string
	Email     string
	Role      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Now          func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("too many failed attempts, please try again later")
)

// ExecuteLogin validates credentials and returns account info for session creation.
// PRE: Email and password are non-empty
// POST: Returns account info on success; failed attempts are counted and may lock the account
// INVARIANT: A locked account is refused even with the right password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return LoginResult{}, ErrInvalidCredentials
	}
	now := deps.Now()

	acct, err := deps.AccountStore.GetByEmail(ctx, account.NormalizeEmail(input.Email))
	if err != nil {
		if !errors.Is(err, account.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeError).Inc()
			return LoginResult{}, err
		}
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeRejected).Inc()
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked(now) {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeLocked).Inc()
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if saveErr := deps.AccountStore.Save(ctx, acct); saveErr != nil {
			slog.Error("auth_event_save_failed", "email", input.Email, "error", saveErr)
		}
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeRejected).Inc()
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		if acct.IsLocked(now) {
			return LoginResult{}, ErrAccountLocked
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	acct.RecordLogin(now)
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		slog.Error("auth_event_save_failed", "email", input.Email, "error", err)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.OutcomeOK).Inc()
	slog.Info("auth_event", "event", "login_success", "email", input.Email, "role", acct.Role)

	return LoginResult{
		AccountID: acct.ID,
		Email:     acct.Email,
		Role:      acct.Role,
	}, nil
}
