package audit

import (
	"errors"
	"time"
)

// Category groups audit events by the admin surface that produced them.
type Category string

const (
	CategoryAuth     Category = "auth"
	CategoryExport   Category = "export"
	CategoryDocument Category = "document"
	CategoryOutbox   Category = "outbox"
)

// Action is what the actor did.
type Action string

const (
	ActionLogin       Action = "login"
	ActionLoginFailed Action = "login_failed"
	ActionLogout      Action = "logout"
	ActionExport      Action = "export"
	ActionDownload    Action = "download"
	ActionRetry       Action = "retry"
	ActionAbandon     Action = "abandon"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultLimit caps an audit listing when the caller gives no limit.
const DefaultLimit = 100

// MaxLimit is the largest listing the admin page will request.
const MaxLimit = 1000

var (
	ErrEmptyID     = errors.New("audit event id is required")
	ErrEmptyAction = errors.New("audit event action is required")
	ErrNotFound    = errors.New("audit event not found")
)

// Event is one entry in the admin audit trail.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	Severity    Severity  `json:"severity"`
	ActorID     string    `json:"actor_id"`
	ActorEmail  string    `json:"actor_email"`
	ResourceID  string    `json:"resource_id"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
}

// NewEvent creates an info-level event.
// PRE: id and action are non-empty
// POST: Returns an Event stamped with now, or a validation error
func NewEvent(id string, now time.Time, category Category, action Action) (Event, error) {
	e := Event{
		ID:        id,
		Timestamp: now.UTC(),
		Category:  category,
		Action:    action,
		Severity:  SeverityInfo,
	}
	return e, e.Validate()
}

// Validate checks the fields every stored event must carry.
func (e Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Action == "" {
		return ErrEmptyAction
	}
	return nil
}

// WithActor records who acted. Failed logins carry only the attempted email.
func (e Event) WithActor(id, email string) Event {
	e.ActorID = id
	e.ActorEmail = email
	return e
}

// WithSeverity sets the severity level.
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithResource names the submission, outbox entry or layout acted on.
func (e Event) WithResource(id string) Event {
	e.ResourceID = id
	return e
}

// WithDescription sets the event description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithRequest sets IP address and user agent from the HTTP request.
func (e Event) WithRequest(ipAddress, userAgent string) Event {
	e.IPAddress = ipAddress
	e.UserAgent = userAgent
	return e
}

// ClampLimit maps a requested listing size onto (0, MaxLimit].
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}
