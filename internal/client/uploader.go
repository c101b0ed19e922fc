package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sylly/backend/internal/filetype"
	"github.com/sylly/backend/internal/models"
	"github.com/sylly/backend/internal/workspace"
)

// State is a step of the upload flow.
type State int

const (
	StateIdle State = iota
	StateFileSelected
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFileSelected:
		return "file selected"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UserError is a message that blocks the current action.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

var (
	ErrUnsupportedFile = &UserError{"Unsupported file type. Please upload PDF, DOCX, or image."}
	ErrFileTooLarge    = &UserError{"File too large. Maximum size is 10MB."}
	ErrSubjectRequired = &UserError{"Pick or create a subject before uploading."}
	ErrNoFile          = &UserError{"Choose a file first."}
	ErrBusy            = &UserError{"An upload is already in progress."}
	ErrNotFailed       = errors.New("nothing to retry")
)

// SelectedFile is the file chosen for upload.
type SelectedFile struct {
	Path         string
	Name         string
	Size         int64
	DeclaredType string
}

// UploadAPI is the part of Client the uploader needs.
type UploadAPI interface {
	Extract(ctx context.Context, path string) (*models.ExtractResponse, error)
}

// Result is the outcome of a successful submission.
type Result struct {
	Events []models.Event
	Record models.UploadRecord
}

// Uploader walks one file at a time through select, submit and the
// success or failure outcome. Only one submission may be in flight.
type Uploader struct {
	mu      sync.Mutex
	api     UploadAPI
	ws      *workspace.Workspace
	now     func() time.Time
	state   State
	file    *SelectedFile
	result  *Result
	lastErr error
}

// NewUploader creates an idle uploader.
func NewUploader(api UploadAPI, ws *workspace.Workspace) *Uploader {
	return &Uploader{api: api, ws: ws, now: time.Now}
}

// State returns the current step.
func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// File returns the selected file, or nil.
func (u *Uploader) File() *SelectedFile {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.file
}

// Result returns the outcome of the last successful submission, or nil.
func (u *Uploader) Result() *Result {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.result
}

// Err returns the error of the last failed submission.
func (u *Uploader) Err() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// Select picks the file at path. The type implied by its extension must be
// an accepted document type and it must fit the size limit, otherwise the
// uploader returns to Idle.
func (u *Uploader) Select(path string) (*SelectedFile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == StateSubmitting {
		return nil, ErrBusy
	}

	u.state = StateIdle
	u.file = nil
	u.result = nil
	u.lastErr = nil

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, ErrUnsupportedFile
	}

	declared := filetype.DeclaredType(path)
	if _, ok := filetype.Extension(declared); !ok {
		return nil, ErrUnsupportedFile
	}
	if info.Size() > filetype.MaxSize {
		return nil, ErrFileTooLarge
	}

	u.file = &SelectedFile{
		Path:         path,
		Name:         filepath.Base(path),
		Size:         info.Size(),
		DeclaredType: declared,
	}
	u.state = StateFileSelected
	return u.file, nil
}

// Submit uploads the selected file under subject. A subject not yet in the
// workspace is registered first. On success the upload is recorded.
func (u *Uploader) Submit(ctx context.Context, subject string) (*Result, error) {
	u.mu.Lock()
	switch {
	case u.state == StateSubmitting:
		u.mu.Unlock()
		return nil, ErrBusy
	case u.file == nil:
		u.mu.Unlock()
		return nil, ErrNoFile
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		u.mu.Unlock()
		return nil, ErrSubjectRequired
	}

	file := *u.file
	u.state = StateSubmitting
	u.lastErr = nil
	u.mu.Unlock()

	result, err := u.submit(ctx, file, subject)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		u.state = StateFailed
		u.lastErr = err
		return nil, err
	}
	u.state = StateSuccess
	u.result = result
	return result, nil
}

func (u *Uploader) submit(ctx context.Context, file SelectedFile, subject string) (*Result, error) {
	if _, err := u.ws.AddSubject(subject); err != nil {
		return nil, err
	}

	resp, err := u.api.Extract(ctx, file.Path)
	if err != nil {
		return nil, err
	}

	rec := models.UploadRecord{
		Name:      file.Name,
		Size:      file.Size,
		Subject:   subject,
		Date:      u.now().UTC().Format(time.RFC3339),
		SavedName: resp.SavedName,
		URL:       resp.URL,
	}
	if err := u.ws.RecordUpload(rec); err != nil {
		return nil, err
	}

	return &Result{Events: resp.Events, Record: rec}, nil
}

// Retry returns a failed upload to FileSelected so it can be submitted again.
func (u *Uploader) Retry() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state != StateFailed {
		return ErrNotFailed
	}
	u.state = StateFileSelected
	u.lastErr = nil
	return nil
}

// Reset drops the selected file and returns to Idle.
func (u *Uploader) Reset() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state == StateSubmitting {
		return ErrBusy
	}
	u.state = StateIdle
	u.file = nil
	u.result = nil
	u.lastErr = nil
	return nil
}
