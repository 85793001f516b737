package projections

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"convocation/internal/domain/application"
	"convocation/internal/domain/document"
)

// GetDocumentDeps holds dependencies for GetDocument.
type GetDocumentDeps struct {
	SubmissionStore SubmissionStore
	DocumentStore   DocumentStore
}

// DocumentResult is an open supporting document. The caller must close Body.
type DocumentResult struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// QueryGetDocument opens the supporting document attached to an application.
// PRE: submissionID is non-empty
// POST: Returns an open document, or document.ErrMissing when the application has none
// INVARIANT: Only keys under document.Prefix are ever opened
func QueryGetDocument(ctx context.Context, submissionID string, deps GetDocumentDeps) (DocumentResult, error) {
	sub, err := deps.SubmissionStore.GetByID(ctx, submissionID)
	if err != nil {
		return DocumentResult{}, err
	}
	key := sub.Get(application.FieldDocumentURL)
	if key == "" {
		return DocumentResult{}, document.ErrMissing
	}
	if err := document.CheckKey(key); err != nil {
		return DocumentResult{}, err
	}

	body, err := deps.DocumentStore.Open(ctx, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DocumentResult{}, fmt.Errorf("%w: %s", document.ErrMissing, key)
		}
		return DocumentResult{}, fmt.Errorf("open document: %w", err)
	}
	return DocumentResult{
		Filename:    path.Base(key),
		ContentType: document.ContentTypeFor(key),
		Body:        body,
	}, nil
}
