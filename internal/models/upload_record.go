package models

import (
	"path/filepath"
	"strings"
)

// UploadRecord links an uploaded file to the subject folder it is shown under.
// Records live only in the client workspace and are never reconciled with the server.
type UploadRecord struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Subject   string `json:"subject"`
	Date      string `json:"date"` // RFC 3339, UTC
	SavedName string `json:"saved_name,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Badge returns the upper-cased file extension used as the file icon, or "FILE".
func (r UploadRecord) Badge() string {
	name := r.Name
	if name == "" {
		name = r.SavedName
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "FILE"
	}
	return strings.ToUpper(ext)
}

// SizeKB returns the size rounded to whole kilobytes.
func (r UploadRecord) SizeKB() int64 {
	return (r.Size + 512) / 1024
}
