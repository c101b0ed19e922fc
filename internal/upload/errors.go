package upload

import (
	"errors"
	"fmt"
)

// TransportCode describes how the file submission itself arrived, before any
// look at its content.
type TransportCode int

const (
	CodeOK TransportCode = iota
	CodeIniSize
	CodeFormSize
	CodePartial
	CodeNoFile
	CodeNoTmpDir
	CodeCantWrite
	CodeExtension
)

// CodeUnknown is used for transport failures that fit no other code.
const CodeUnknown TransportCode = -1

var transportMessages = map[TransportCode]string{
	CodeIniSize:   "File exceeds maximum upload size",
	CodeFormSize:  "File exceeds form size limit",
	CodePartial:   "Partial file uploaded",
	CodeNoFile:    "No file uploaded",
	CodeNoTmpDir:  "Missing temporary folder",
	CodeCantWrite: "Failed to write file",
	CodeExtension: "File upload stopped by extension",
}

// Message returns the user-facing text for a non-OK code.
func (c TransportCode) Message() string {
	if msg, ok := transportMessages[c]; ok {
		return msg
	}
	return "Unknown upload error"
}

// Validation failure kinds, matched with errors.Is.
var (
	ErrTransport       = errors.New("upload transport error")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// ValidationError reports the first check a submission failed.
type ValidationError struct {
	Kind     error
	Message  string
	Code     TransportCode
	MimeType string
	Size     int64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func transportError(code TransportCode) *ValidationError {
	return &ValidationError{Kind: ErrTransport, Message: code.Message(), Code: code}
}
