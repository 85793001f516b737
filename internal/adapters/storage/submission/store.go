package submission

import (
	"context"

	domain "convocation/internal/domain/submission"
)

// Store persists form submissions.
type Store interface {
	// Save inserts a submission. Submissions are write-once.
	// PRE: s has been validated
	// POST: s is persisted, or an error is returned and nothing is written
	Save(ctx context.Context, s domain.Submission) error

	// GetByID retrieves a submission.
	// POST: Returns domain.ErrNotFound when no row matches
	GetByID(ctx context.Context, id string) (domain.Submission, error)

	// List returns submissions newest first.
	// POST: Limit <= 0 means no limit
	List(ctx context.Context, filter ListFilter) ([]domain.Submission, error)

	// Count returns how many submissions match the filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List and Count.
type ListFilter struct {
	Kind   string
	Limit  int
	Offset int
}
