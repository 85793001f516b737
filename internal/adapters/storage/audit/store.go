package audit

import (
	"context"
	"time"

	domain "convocation/internal/domain/audit"
)

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	// PRE: event has been validated
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// List returns audit events matching filter.
	// PRE: limit > 0
	// POST: Returns at most limit events ordered by timestamp desc
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)

	// GetByID retrieves a specific audit event.
	// PRE: id is non-empty
	// POST: Returns the event or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Event, error)
}

// Filter narrows an audit listing. Zero values match everything.
type Filter struct {
	Category domain.Category
	Action   domain.Action
	ActorID  string
	Since    time.Time
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
