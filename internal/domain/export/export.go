package export

import (
	"errors"
	"time"
)

// Layout constants for the report body.
const (
	LayoutDetailed = "detailed"
	LayoutTabular  = "tabular"
)

// ContentTypePDF is the MIME type of every report artifact.
const ContentTypePDF = "application/pdf"

// FilenamePrefix is the fixed part of a report filename.
const FilenamePrefix = "Leadership-Position-Applications-"

// Version is stamped into report metadata so downloaded files can be traced
// back to the layout revision that produced them.
const Version = "1.0"

// ValidLayouts contains all supported layouts.
var ValidLayouts = []string{LayoutDetailed, LayoutTabular}

// Domain errors.
var (
	ErrUnknownLayout = errors.New("layout must be one of: detailed, tabular")
	ErrEmptyArtifact = errors.New("artifact has no data")
	ErrNoFilename    = errors.New("artifact filename is required")
)

// Artifact is one finished, downloadable report.
// INVARIANT: An Artifact is only ever returned complete; a failed export returns none
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
	Metadata    Metadata
}

// Metadata describes the export itself.
type Metadata struct {
	ExportDate  time.Time
	Layout      string
	Version     string
	RecordCount int
}

// Filename returns the deterministic report filename for the given day.
// The date is the ISO calendar date of now in UTC.
func Filename(now time.Time) string {
	return FilenamePrefix + now.UTC().Format("2006-01-02") + ".pdf"
}

// IsValidLayout reports whether layout names a supported report layout.
func IsValidLayout(layout string) bool {
	for _, l := range ValidLayouts {
		if l == layout {
			return true
		}
	}
	return false
}

// Validate checks that the Artifact can be served.
// PRE: none
// POST: Returns nil if the artifact has a filename, data and a known layout
func (a *Artifact) Validate() error {
	if a.Filename == "" {
		return ErrNoFilename
	}
	if len(a.Data) == 0 {
		return ErrEmptyArtifact
	}
	if !IsValidLayout(a.Metadata.Layout) {
		return ErrUnknownLayout
	}
	return nil
}

// ContentDisposition returns the header value that makes browsers download the artifact.
func (a *Artifact) ContentDisposition() string {
	return `attachment; filename="` + a.Filename + `"`
}
