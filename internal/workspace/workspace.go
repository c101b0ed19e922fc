package workspace

import (
	"errors"
	"strings"
	"sync"

	"github.com/sylly/backend/internal/models"
)

var (
	ErrEmptySubject   = errors.New("subject name is empty")
	ErrUploadNotFound = errors.New("upload not found")
)

// Folder is one subject card: the subject and how many uploads it holds.
type Folder struct {
	Subject string
	Count   int
}

// Workspace is the client's view of subjects and uploads. Every call reads
// the store afresh, so several processes sharing a store stay consistent.
type Workspace struct {
	mu    sync.Mutex
	store Store
}

// New wraps a store.
func New(store Store) *Workspace {
	return &Workspace{store: store}
}

// Close closes the underlying store.
func (w *Workspace) Close() error {
	return w.store.Close()
}

// Subjects returns the subjects in creation order.
func (w *Workspace) Subjects() ([]string, error) {
	state, err := w.store.Load()
	if err != nil {
		return nil, err
	}
	return state.Subjects, nil
}

// HasSubject reports whether name is already registered.
func (w *Workspace) HasSubject(name string) (bool, error) {
	subjects, err := w.Subjects()
	if err != nil {
		return false, err
	}
	return contains(subjects, strings.TrimSpace(name)), nil
}

// AddSubject registers name unless it already exists. It reports whether
// the subject was new.
func (w *Workspace) AddSubject(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptySubject
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	state, err := w.store.Load()
	if err != nil {
		return false, err
	}
	if contains(state.Subjects, name) {
		return false, nil
	}

	state.Subjects = append(state.Subjects, name)
	return true, w.store.Save(state)
}

// RecordUpload appends rec to the upload history. The subject is not
// checked against the subject list.
func (w *Workspace) RecordUpload(rec models.UploadRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, err := w.store.Load()
	if err != nil {
		return err
	}
	state.Uploads = append(state.Uploads, rec)
	return w.store.Save(state)
}

// Uploads returns every recorded upload in insertion order.
func (w *Workspace) Uploads() ([]models.UploadRecord, error) {
	state, err := w.store.Load()
	if err != nil {
		return nil, err
	}
	return state.Uploads, nil
}

// Folders returns one folder per subject with its upload count. Uploads
// whose subject is not registered are not counted anywhere.
func (w *Workspace) Folders() ([]Folder, error) {
	state, err := w.store.Load()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(state.Subjects))
	for _, u := range state.Uploads {
		counts[u.Subject]++
	}

	folders := make([]Folder, 0, len(state.Subjects))
	for _, s := range state.Subjects {
		folders = append(folders, Folder{Subject: s, Count: counts[s]})
	}
	return folders, nil
}

// Files returns the uploads filed under subject.
func (w *Workspace) Files(subject string) ([]models.UploadRecord, error) {
	uploads, err := w.Uploads()
	if err != nil {
		return nil, err
	}

	files := []models.UploadRecord{}
	for _, u := range uploads {
		if u.Subject == subject {
			files = append(files, u)
		}
	}
	return files, nil
}

// Find returns the most recent upload under subject whose original or
// stored name is name.
func (w *Workspace) Find(subject, name string) (*models.UploadRecord, error) {
	files, err := w.Files(subject)
	if err != nil {
		return nil, err
	}
	for i := len(files) - 1; i >= 0; i-- {
		if files[i].Name == name || (files[i].SavedName != "" && files[i].SavedName == name) {
			rec := files[i]
			return &rec, nil
		}
	}
	return nil, ErrUploadNotFound
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
