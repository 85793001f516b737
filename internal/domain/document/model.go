package document

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// MaxSize is the largest supporting document accepted, in bytes.
const MaxSize = 10 << 20

// Prefix is the blob key prefix for supporting documents.
const Prefix = "application-documents/"

// AllowedTypes are the accepted MIME types.
var AllowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.oasis.opendocument.text",
	"text/plain",
	"application/rtf",
}

// AllowedExtensions are accepted when the declared MIME type is not.
var AllowedExtensions = []string{".pdf", ".doc", ".docx", ".odt", ".txt", ".rtf"}

// Domain errors. The messages are shown to applicants as-is.
var (
	ErrType    = errors.New("Only document files are allowed (PDF, DOC, DOCX, ODT, TXT, RTF)")
	ErrTooBig  = errors.New("File size must be less than 10MB")
	ErrEmpty   = errors.New("The selected file is empty")
	ErrBadKey  = errors.New("invalid document key")
	ErrMissing = errors.New("document not found")
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Upload describes a file received from an applicant.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
}

// Validate checks the type and size limits.
// PRE: none
// POST: Returns nil, ErrType, ErrTooBig or ErrEmpty
func (u Upload) Validate() error {
	if !allowedType(u.ContentType) && !allowedExtension(u.Filename) {
		return ErrType
	}
	if u.Size > MaxSize {
		return ErrTooBig
	}
	if u.Size <= 0 {
		return ErrEmpty
	}
	return nil
}

// Key builds the storage key "application-documents/<applicant>_<unix millis>.<ext>".
// Every character of applicant outside [A-Za-z0-9] becomes "_".
// INVARIANT: ext is one of AllowedExtensions or "bin", so the key passes CheckKey
func (u Upload) Key(applicant string, now time.Time) string {
	name := unsafeChars.ReplaceAllString(applicant, "_")
	return fmt.Sprintf("%s%s_%d.%s", Prefix, name, now.UnixMilli(), u.extension())
}

// extension picks the key suffix from the filename when it is an allowed
// document extension, then from the declared type, else "bin".
func (u Upload) extension() string {
	ext := strings.ToLower(path.Ext(u.Filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return strings.TrimPrefix(ext, ".")
		}
	}
	ct := mediaType(u.ContentType)
	for _, ext := range AllowedExtensions {
		if ct != "" && mediaType(ContentTypeFor(ext)) == ct {
			return strings.TrimPrefix(ext, ".")
		}
	}
	return "bin"
}

// CheckKey rejects keys outside Prefix or that could escape the blob root.
func CheckKey(key string) error {
	if !strings.HasPrefix(key, Prefix) {
		return ErrBadKey
	}
	rest := strings.TrimPrefix(key, Prefix)
	if rest == "" || strings.ContainsAny(rest, `/\`) || strings.Contains(rest, "..") {
		return ErrBadKey
	}
	return nil
}

// ContentTypeFor guesses a download content type from the key's extension.
func ContentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".odt":
		return "application/vnd.oasis.opendocument.text"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".rtf":
		return "application/rtf"
	}
	return "application/octet-stream"
}

func mediaType(ct string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
}

func allowedType(ct string) bool {
	ct = mediaType(ct)
	for _, t := range AllowedTypes {
		if t == ct {
			return true
		}
	}
	return false
}

func allowedExtension(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
