package submission

import (
	"errors"
	"strings"
	"time"
)

// Form kinds. Each kind is stored in its own logical collection.
const (
	KindRegistration = "registration"
	KindPartnership  = "partnership"
	KindLeadership   = "leadership"
	KindContact      = "contact"
)

// ValidKinds contains all known form kinds.
var ValidKinds = []string{KindRegistration, KindPartnership, KindLeadership, KindContact}

// Domain errors.
var (
	ErrEmptyID      = errors.New("submission id is required")
	ErrInvalidKind  = errors.New("kind must be one of: registration, partnership, leadership, contact")
	ErrNoFields     = errors.New("submission has no fields")
	ErrNotFound     = errors.New("submission not found")
	ErrMissingStamp = errors.New("submitted_at must be set")
)

// Submission is one stored form submission. Fields is schema-less: consumers
// must tolerate missing keys.
// INVARIANT: ID, Kind and SubmittedAt never change after Save
type Submission struct {
	ID          string
	Kind        string
	SubmittedAt time.Time
	Fields      map[string]string
}

// Validate checks that the Submission can be persisted.
// PRE: none
// POST: Returns nil if valid, error otherwise
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if !IsValidKind(s.Kind) {
		return ErrInvalidKind
	}
	if s.SubmittedAt.IsZero() {
		return ErrMissingStamp
	}
	if len(s.Fields) == 0 {
		return ErrNoFields
	}
	return nil
}

// Get returns the trimmed value of a field, or "" if absent.
func (s Submission) Get(name string) string {
	return strings.TrimSpace(s.Fields[name])
}

// Matches reports whether any field value contains term, case-insensitively.
// An empty term matches everything.
func (s Submission) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.ID), term) {
		return true
	}
	for _, v := range s.Fields {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// IsValidKind reports whether kind is a known form kind.
func IsValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}
