package application

import (
	"errors"
	"strings"
	"time"

	"convocation/internal/domain/submission"
)

// Placeholder is rendered wherever an optional field has no value.
const Placeholder = "N/A"

// Field names used by the leadership application form.
const (
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldAddress      = "address"
	FieldGender       = "gender"
	FieldChurch       = "church"
	FieldZone         = "zone"
	FieldOfficeNow    = "officeNow"
	FieldAchievements = "achievements"
	FieldOfficeApply  = "officeApply"
	FieldReasonsApply = "reasonsApply"
	FieldDocumentURL  = "documentURL"
)

// ErrWrongKind is returned when a non-leadership submission is converted.
var ErrWrongKind = errors.New("submission is not a leadership application")

// Record is the typed, read-only view of one leadership-position application.
// Every field except ID and SubmittedAt may be empty.
// INVARIANT: Records are never mutated after FromSubmission returns them
type Record struct {
	ID           string
	SubmittedAt  time.Time
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Address      string
	Gender       string
	Church       string
	Zone         string
	OfficeNow    string
	Achievements string
	OfficeApply  string
	ReasonsApply string
	DocumentURL  string
}

// FromSubmission converts a stored submission into a Record.
// PRE: s.Kind is leadership
// POST: Returns a Record with trimmed values; absent keys become ""
func FromSubmission(s submission.Submission) (Record, error) {
	if s.Kind != submission.KindLeadership {
		return Record{}, ErrWrongKind
	}
	return Record{
		ID:           s.ID,
		SubmittedAt:  s.SubmittedAt,
		FirstName:    s.Get(FieldFirstName),
		LastName:     s.Get(FieldLastName),
		Email:        s.Get(FieldEmail),
		Phone:        s.Get(FieldPhone),
		Address:      s.Get(FieldAddress),
		Gender:       s.Get(FieldGender),
		Church:       s.Get(FieldChurch),
		Zone:         s.Get(FieldZone),
		OfficeNow:    s.Get(FieldOfficeNow),
		Achievements: s.Get(FieldAchievements),
		OfficeApply:  s.Get(FieldOfficeApply),
		ReasonsApply: s.Get(FieldReasonsApply),
		DocumentURL:  s.Get(FieldDocumentURL),
	}, nil
}

// FromSubmissions converts a list, skipping nothing: any non-leadership entry is an error.
func FromSubmissions(subs []submission.Submission) ([]Record, error) {
	records := make([]Record, 0, len(subs))
	for _, s := range subs {
		r, err := FromSubmission(s)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// FullName joins first and last name, falling back to the placeholder.
func (r Record) FullName() string {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	if name == "" {
		return Placeholder
	}
	return name
}

// HoldsOffice reports whether the applicant listed a current position.
func (r Record) HoldsOffice() bool {
	return r.OfficeNow != ""
}

// HasAchievements reports whether the applicant listed achievements.
func (r Record) HasAchievements() bool {
	return r.Achievements != ""
}

// SubmittedWithin reports whether the record was submitted within d of now.
func (r Record) SubmittedWithin(now time.Time, d time.Duration) bool {
	if r.SubmittedAt.IsZero() {
		return false
	}
	return now.Sub(r.SubmittedAt) <= d
}

// OrPlaceholder returns v, or Placeholder when v is empty.
func OrPlaceholder(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}

// FormatSubmitted renders a submission time as "Jan 2, 2006 at 3:04 PM".
// A zero time renders as "Unknown".
func FormatSubmitted(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("Jan 2, 2006") + " at " + t.Format("3:04 PM")
}
