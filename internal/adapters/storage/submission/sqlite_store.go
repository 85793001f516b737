package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"convocation/internal/adapters/storage"
	domain "convocation/internal/domain/submission"
)

const columns = "id, kind, submitted_at, fields"

// SQLiteStore implements Store using SQLite. Fields are stored as a JSON object.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new submission store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a submission.
// PRE: s has been validated
// POST: Row is written; a duplicate id is an error
func (s *SQLiteStore) Save(ctx context.Context, sub domain.Submission) error {
	fields, err := json.Marshal(sub.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO submission ("+columns+") VALUES (?, ?, ?, ?)",
		sub.ID, sub.Kind, storage.FormatTime(sub.SubmittedAt), string(fields))
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by its ID.
// PRE: id is non-empty
// POST: Returns the submission or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Submission, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM submission WHERE id = ?", id)
	sub, err := scanSubmission(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Submission{}, domain.ErrNotFound
	}
	return sub, err
}

// List retrieves submissions newest first.
// PRE: filter.Kind is empty or a known kind
// POST: Returns matching submissions ordered by submitted_at DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Submission, error) {
	var qb strings.Builder
	qb.WriteString("SELECT " + columns + " FROM submission")
	where, args := filter.where()
	qb.WriteString(where)
	qb.WriteString(" ORDER BY submitted_at DESC, id")
	if filter.Limit > 0 {
		qb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Count returns the number of submissions matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filter.where()
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submission"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

func (f ListFilter) where() (string, []any) {
	if f.Kind == "" {
		return "", nil
	}
	return " WHERE kind = ?", []any{f.Kind}
}

// scanSubmission extracts a Submission from a row scanner function.
func scanSubmission(scan func(dest ...any) error) (domain.Submission, error) {
	var sub domain.Submission
	var submittedAt, fields string
	if err := scan(&sub.ID, &sub.Kind, &submittedAt, &fields); err != nil {
		return domain.Submission{}, err
	}
	t, err := storage.ParseTime(submittedAt)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("submission %s: %w", sub.ID, err)
	}
	sub.SubmittedAt = t
	if err := json.Unmarshal([]byte(fields), &sub.Fields); err != nil {
		return domain.Submission{}, fmt.Errorf("submission %s: decode fields: %w", sub.ID, err)
	}
	return sub, nil
}
