package upload

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sylly/backend/internal/filetype"
)

// Submission is a single file as received by the upload endpoint, already
// spooled to TempPath when Code is CodeOK.
type Submission struct {
	Filename     string
	DeclaredType string
	Size         int64
	TempPath     string
	Code         TransportCode
}

// Verdict is the outcome of a successful validation.
type Verdict struct {
	MimeType  string
	Extension string
}

// Validator checks a submission against the transport code, the sniffed
// content type and the size ceiling, in that order.
type Validator struct {
	maxSize int64
}

// NewValidator creates a validator with the given size ceiling in bytes.
func NewValidator(maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = filetype.MaxSize
	}
	return &Validator{maxSize: maxSize}
}

// MaxSize returns the configured ceiling.
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate returns the first failed check as a *ValidationError.
// The declared type is never trusted; the type comes from the file content.
func (v *Validator) Validate(sub *Submission) (*Verdict, error) {
	if sub.Code != CodeOK {
		return nil, transportError(sub.Code)
	}

	detected, err := mimetype.DetectFile(sub.TempPath)
	if err != nil {
		return nil, &ValidationError{
			Kind:    ErrUnsupportedType,
			Message: "Unsupported file type",
		}
	}

	mimeType, ext, ok := match(detected)
	if !ok {
		return nil, &ValidationError{
			Kind:     ErrUnsupportedType,
			Message:  "Unsupported file type",
			MimeType: detected.String(),
		}
	}

	if sub.Size > v.maxSize {
		return nil, &ValidationError{
			Kind:     ErrFileTooLarge,
			Message:  fmt.Sprintf("File too large (max %dMB)", v.maxSize/(1024*1024)),
			MimeType: mimeType,
			Size:     sub.Size,
		}
	}

	return &Verdict{MimeType: mimeType, Extension: ext}, nil
}

// match resolves a detected type, one of its aliases or one of its parents
// (an animated PNG is still a PNG) to the allow-list.
func match(detected *mimetype.MIME) (string, string, bool) {
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range filetype.Allowed() {
			if m.Is(allowed) {
				ext, _ := filetype.Extension(allowed)
				return allowed, ext, true
			}
		}
	}
	return "", "", false
}
