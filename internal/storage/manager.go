package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/djherbis/times"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/sylly/backend/internal/models"
)

// ModifiedLayout is the timestamp format used in listings.
const ModifiedLayout = "2006-01-02 15:04:05"

// ErrWrite marks a failure to move an accepted upload into the upload directory.
var ErrWrite = errors.New("storage write failed")

// WriteError is returned by Put. Its message is safe to show to the uploader.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return "Failed to save file"
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWrite, e.Err}
}

// Store defines the interface for upload storage.
type Store interface {
	Put(tempPath, ext string) (*models.UploadedFile, error)
	List() ([]models.ListedFile, error)
}

// LocalStore keeps uploads in a single flat directory on the local filesystem.
type LocalStore struct {
	uploadDir    string
	publicPrefix string
	ignore       []glob.Glob
}

// NewLocalStore creates a LocalStore. Files matching any of ignorePatterns
// are hidden from listings.
func NewLocalStore(uploadDir, publicPrefix string, ignorePatterns []string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	abs, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("resolving upload directory: %w", err)
	}

	ignore := make([]glob.Glob, 0, len(ignorePatterns))
	for _, p := range ignorePatterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling ignore pattern %q: %w", p, err)
		}
		ignore = append(ignore, g)
	}

	return &LocalStore{
		uploadDir:    abs,
		publicPrefix: strings.Trim(publicPrefix, "/"),
		ignore:       ignore,
	}, nil
}

// Dir returns the absolute upload directory.
func (s *LocalStore) Dir() string {
	return s.uploadDir
}

// URL returns the site-relative public URL of a stored file.
func (s *LocalStore) URL(storedName string) string {
	if s.publicPrefix == "" {
		return storedName
	}
	return s.publicPrefix + "/" + storedName
}

// Put moves tempPath into the upload directory under a fresh time-ordered
// name carrying ext. Only StoredName, StoredPath and PublicURL are filled.
func (s *LocalStore) Put(tempPath, ext string) (*models.UploadedFile, error) {
	// Recreated on every write in case the directory was removed underneath us.
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, &WriteError{Path: s.uploadDir, Err: err}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, &WriteError{Path: tempPath, Err: err}
	}

	name := id.String() + "." + ext
	path := filepath.Join(s.uploadDir, name)

	if err := os.Rename(tempPath, path); err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}

	return &models.UploadedFile{
		StoredName: name,
		StoredPath: path,
		PublicURL:  s.URL(name),
	}, nil
}

// List returns one entry per regular, visible file in directory order.
// A missing directory yields an empty list.
func (s *LocalStore) List() ([]models.ListedFile, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ListedFile{}, nil
		}
		return nil, fmt.Errorf("reading upload directory: %w", err)
	}

	files := make([]models.ListedFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") || s.ignored(name) {
			continue
		}

		path := filepath.Join(s.uploadDir, name)
		info, err := os.Stat(path)
		if err != nil {
			// Removed between ReadDir and Stat.
			continue
		}

		modified := info.ModTime()
		if ts, err := times.Stat(path); err == nil {
			modified = ts.ModTime()
		}

		files = append(files, models.ListedFile{
			Name:     name,
			URL:      s.URL(name),
			Size:     info.Size(),
			Modified: modified.Local().Format(ModifiedLayout),
		})
	}

	return files, nil
}

func (s *LocalStore) ignored(name string) bool {
	for _, g := range s.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}
