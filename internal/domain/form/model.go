package form

import (
	"errors"
	"sort"
	"strings"
)

// Field kinds. Each maps to one HTML control.
const (
	KindText     = "text"
	KindEmail    = "email"
	KindTel      = "tel"
	KindDate     = "date"
	KindTextarea = "textarea"
	KindSelect   = "select"
	KindRadio    = "radio"
	KindFile     = "file"
)

// Max length applied to every free-text value.
const (
	MaxTextLength     = 200
	MaxTextareaLength = 5000
)

// Domain errors.
var (
	ErrUnknownForm  = errors.New("unknown form")
	ErrInvalidField = errors.New("field definition is invalid")
)

// Option is one choice of a select or radio field.
type Option struct {
	Value string
	Label string
}

// Condition makes a field visible only while another field holds a value.
type Condition struct {
	Field  string
	Equals string
}

// Field describes one input of a form.
type Field struct {
	Name        string
	Label       string
	Kind        string
	Required    bool
	MinLength   int
	Options     []Option
	Placeholder string
	// Message replaces the generated message for any failure of this field.
	Message string
	// VisibleWhen hides the field unless the condition holds. A hidden field
	// is neither validated nor stored; a visible required field is required.
	VisibleWhen *Condition
	// Accept lists file extensions for file fields, e.g. ".pdf,.doc".
	Accept string
}

// Schema is the declarative definition of one public form.
// INVARIANT: Field names are unique and every VisibleWhen refers to an earlier field
type Schema struct {
	Name           string
	Title          string
	Intro          string
	Collection     string
	SubmitLabel    string
	SuccessTitle   string
	SuccessMessage string
	Fields         []Field
}

// ValidationErrors maps field names to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+v[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Visible reports whether f is shown given the current values.
func (s *Schema) Visible(f Field, values map[string]string) bool {
	if f.VisibleWhen == nil {
		return true
	}
	return strings.TrimSpace(values[f.VisibleWhen.Field]) == f.VisibleWhen.Equals
}

// Normalize returns the values that would be stored: known, visible,
// non-file fields with surrounding whitespace removed. Empty values are dropped.
func (s *Schema) Normalize(values map[string]string) map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind == KindFile || !s.Visible(f, values) {
			continue
		}
		if v := strings.TrimSpace(values[f.Name]); v != "" {
			out[f.Name] = v
		}
	}
	return out
}

// FileField returns the schema's file field, if it has one.
func (s *Schema) FileField() (Field, bool) {
	for _, f := range s.Fields {
		if f.Kind == KindFile {
			return f, true
		}
	}
	return Field{}, false
}

// Check verifies the schema definition itself.
// PRE: none
// POST: Returns nil if every field is well formed
func (s *Schema) Check() error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" || f.Label == "" || seen[f.Name] {
			return ErrInvalidField
		}
		if (f.Kind == KindSelect || f.Kind == KindRadio) && len(f.Options) == 0 {
			return ErrInvalidField
		}
		if f.VisibleWhen != nil && !seen[f.VisibleWhen.Field] {
			return ErrInvalidField
		}
		seen[f.Name] = true
	}
	return nil
}

// IsHidden reports whether f has a visibility condition. Used by templates
// to mark the controls the page toggles.
func (f Field) IsHidden() bool {
	return f.VisibleWhen != nil
}

// HasOption reports whether v is one of the field's option values.
func (f Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}
