package projections

import (
	"context"
	"io"

	"convocation/internal/adapters/storage/submission"
	domainOutbox "convocation/internal/domain/outbox"
	domainSubmission "convocation/internal/domain/submission"
)

// SubmissionStore interface for submission queries.
type SubmissionStore interface {
	GetByID(ctx context.Context, id string) (domainSubmission.Submission, error)
	List(ctx context.Context, filter submission.ListFilter) ([]domainSubmission.Submission, error)
}

// DocumentStore interface for reading uploaded documents.
type DocumentStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// OutboxStore interface for outbox queries.
type OutboxStore interface {
	ListFailed(ctx context.Context, limit int) ([]domainOutbox.Entry, error)
}
