// Package filetype holds the document allow-list shared by the server
// validator and the CLI pre-validation.
package filetype

import (
	"path/filepath"
	"strings"
)

// MaxSize is the largest accepted upload, in bytes.
const MaxSize int64 = 10 * 1024 * 1024

// Allowed MIME types.
const (
	PDF  = "application/pdf"
	DOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	JPEG = "image/jpeg"
	PNG  = "image/png"
)

// allowed maps each accepted MIME type to the extension stored files get.
var allowed = map[string]string{
	PDF:  "pdf",
	DOCX: "docx",
	JPEG: "jpg",
	PNG:  "png",
}

// declared maps file name extensions to the MIME type a browser would declare.
var declared = map[string]string{
	".pdf":  PDF,
	".docx": DOCX,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".png":  PNG,
}

// Extension returns the stored-file extension for an allowed MIME type.
func Extension(mimeType string) (string, bool) {
	ext, ok := allowed[mimeType]
	return ext, ok
}

// Allowed returns the accepted MIME types in a stable order.
func Allowed() []string {
	return []string{PDF, DOCX, JPEG, PNG}
}

// DeclaredType returns the MIME type implied by a file name, or "" when the
// extension is not one a client would declare for an allowed document.
func DeclaredType(name string) string {
	return declared[strings.ToLower(filepath.Ext(name))]
}
