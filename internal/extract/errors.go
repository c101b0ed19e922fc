package extract

import (
	"errors"
	"fmt"
)

// Failure kinds, matched with errors.Is.
var (
	ErrScriptMissing = errors.New("extraction script missing")
	ErrProcess       = errors.New("extraction process failed")
	ErrOutputFormat  = errors.New("extraction output malformed")
	ErrReported      = errors.New("extraction reported an error")
	ErrTimeout       = errors.New("extraction timed out")
)

// Error is returned for every failed extraction. Message is safe to show to
// the uploader.
type Error struct {
	Kind    error
	Message string
	Output  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func scriptMissing(path string, cause error) *Error {
	return &Error{Kind: ErrScriptMissing, Message: "Extraction script not found", Output: path, Err: cause}
}

func noOutput(cause error) *Error {
	return &Error{Kind: ErrProcess, Message: "Extraction process produced no output", Err: cause}
}

func badOutput(raw string, cause error) *Error {
	return &Error{Kind: ErrOutputFormat, Message: "Invalid JSON from extraction script: " + raw, Output: raw, Err: cause}
}

func reported(msg string) *Error {
	return &Error{Kind: ErrReported, Message: "Extraction error: " + msg}
}
