package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"convocation/internal/domain/application"
	"convocation/internal/domain/document"
	"convocation/internal/domain/form"
	"convocation/internal/domain/submission"
	"convocation/internal/metrics"
)

// SubmissionStoreForSubmit defines the store interface needed by SubmitForm.
type SubmissionStoreForSubmit interface {
	Save(ctx context.Context, s submission.Submission) error
}

// DocumentStoreForSubmit stores supporting documents.
type DocumentStoreForSubmit interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Delete(ctx context.Context, key string) error
}

// DocumentUpload is a file attached to a form post.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SubmitFormInput carries input for the SubmitForm orchestrator.
type SubmitFormInput struct {
	Form     string
	Values   map[string]string
	Document *DocumentUpload // nil when no file was chosen
}

// SubmitFormResult identifies the stored submission.
type SubmitFormResult struct {
	ID     string
	Schema *form.Schema
}

// SubmitFormDeps holds dependencies for SubmitForm.
type SubmitFormDeps struct {
	Submissions SubmissionStoreForSubmit
	Documents   DocumentStoreForSubmit // required only for forms with a file field
	Notifier    *ContactNotifier       // nil disables contact notifications
	GenerateID  func() string
	Now         func() time.Time
}

// ErrDocumentStorage is returned when a valid document could not be stored.
var ErrDocumentStorage = errors.New("failed to upload document")

// ExecuteSubmitForm validates a form post, stores the optional supporting
// document, persists the submission and, for the contact form, notifies the office.
// PRE: input.Form names a known form
// POST: On success exactly one submission is stored; on error none is
// INVARIANT: Hidden conditional fields and file fields are never stored as values
func ExecuteSubmitForm(ctx context.Context, input SubmitFormInput, deps SubmitFormDeps) (SubmitFormResult, error) {
	schema, err := form.Lookup(input.Form)
	if err != nil {
		return SubmitFormResult{}, err
	}

	clean, err := schema.Validate(input.Values)
	if err != nil {
		var verrs form.ValidationErrors
		if errors.As(err, &verrs) {
			metrics.Submissions.WithLabelValues(schema.Name, metrics.OutcomeInvalid).Inc()
			slog.Info("submission_rejected", "form", schema.Name, "fields", len(verrs))
		}
		return SubmitFormResult{}, err
	}

	now := deps.Now()
	id := deps.GenerateID()

	var docKey string
	if fileField, ok := schema.FileField(); ok && input.Document != nil {
		docKey, err = storeDocument(ctx, fileField, clean, *input.Document, now, deps)
		if err != nil {
			return SubmitFormResult{}, err
		}
		clean[application.FieldDocumentURL] = docKey
	}

	sub := submission.Submission{
		ID:          id,
		Kind:        schema.Collection,
		SubmittedAt: now,
		Fields:      clean,
	}
	if err := sub.Validate(); err != nil {
		metrics.Submissions.WithLabelValues(schema.Name, metrics.OutcomeInvalid).Inc()
		discardDocument(ctx, docKey, deps)
		return SubmitFormResult{}, err
	}
	if err := deps.Submissions.Save(ctx, sub); err != nil {
		metrics.Submissions.WithLabelValues(schema.Name, metrics.OutcomeError).Inc()
		discardDocument(ctx, docKey, deps)
		return SubmitFormResult{}, fmt.Errorf("save %s submission: %w", schema.Name, err)
	}

	metrics.Submissions.WithLabelValues(schema.Name, metrics.OutcomeOK).Inc()
	slog.Info("submission_saved", "form", schema.Name, "id", id)

	if sub.Kind == submission.KindContact && deps.Notifier != nil {
		_ = deps.Notifier.Notify(ctx, sub) // logged inside; the submission itself succeeded
	}

	return SubmitFormResult{ID: id, Schema: schema}, nil
}

// discardDocument removes a document whose submission was never stored.
// The request context may already be cancelled, so deletion gets its own.
func discardDocument(ctx context.Context, key string, deps SubmitFormDeps) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := deps.Documents.Delete(ctx, key); err != nil {
		slog.Error("document_discard_failed", "key", key, "error", err)
		return
	}
	slog.Info("document_discarded", "key", key)
}

// storeDocument validates and uploads a supporting document, returning its key.
func storeDocument(ctx context.Context, field form.Field, values map[string]string, doc DocumentUpload, now time.Time, deps SubmitFormDeps) (string, error) {
	upload := document.Upload{Filename: doc.Filename, ContentType: doc.ContentType, Size: doc.Size}
	if err := upload.Validate(); err != nil {
		metrics.DocumentUploads.WithLabelValues(metrics.OutcomeRejected).Inc()
		return "", form.ValidationErrors{field.Name: err.Error()}
	}
	if deps.Documents == nil {
		return "", ErrDocumentStorage
	}

	applicant := strings.TrimSpace(values[application.FieldFirstName] + " " + values[application.FieldLastName])
	key := upload.Key(applicant, now)
	body := io.LimitReader(doc.Body, document.MaxSize+1)
	if err := deps.Documents.Put(ctx, key, body); err != nil {
		metrics.DocumentUploads.WithLabelValues(metrics.OutcomeError).Inc()
		slog.Error("document_upload_failed", "key", key, "error", err)
		return "", fmt.Errorf("%w: %v", ErrDocumentStorage, err)
	}
	metrics.DocumentUploads.WithLabelValues(metrics.OutcomeOK).Inc()
	slog.Info("document_uploaded", "key", key, "size", doc.Size)
	return key, nil
}
