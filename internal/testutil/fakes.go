// fakes.go - Test doubles for storage and extraction
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sylly/backend/internal/models"
)

// MockStorage records Put calls without touching a real upload directory.
// The temp file is removed on Put, as a rename would.
type MockStorage struct {
	mu     sync.Mutex
	PutErr error
	ListFn func() ([]models.ListedFile, error)
	puts   []string
}

// NewMockStorage creates an empty MockStorage.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Put(tempPath, ext string) (*models.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return nil, m.PutErr
	}

	name := fmt.Sprintf("stored-%d.%s", len(m.puts)+1, ext)
	m.puts = append(m.puts, name)
	os.Remove(tempPath)

	return &models.UploadedFile{
		StoredName: name,
		StoredPath: "/mock/" + name,
		PublicURL:  "uploads/" + name,
	}, nil
}

func (m *MockStorage) List() ([]models.ListedFile, error) {
	if m.ListFn != nil {
		return m.ListFn()
	}
	return []models.ListedFile{}, nil
}

// Puts returns the stored names handed out so far.
func (m *MockStorage) Puts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.puts...)
}

// FakeExtractor returns canned events or a canned error and counts calls.
type FakeExtractor struct {
	mu     sync.Mutex
	Events []models.Event
	Err    error
	paths  []string
}

func (f *FakeExtractor) Extract(ctx context.Context, path string) ([]models.Event, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return f.Events, nil
}

// Calls returns how many times Extract ran.
func (f *FakeExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths)
}

// Paths returns the file paths Extract was called with.
func (f *FakeExtractor) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}
