// Package workspace keeps the client's subjects and upload history in an
// embedded key-value store.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/sylly/backend/internal/models"
)

// Collection keys.
const (
	KeySubjects = "subjects"
	KeyUploads  = "uploads"
)

// State is the full contents of a workspace.
type State struct {
	Subjects []string
	Uploads  []models.UploadRecord
}

// Store loads and saves a workspace as a whole.
type Store interface {
	Load() (*State, error)
	Save(*State) error
	Close() error
}

// BadgerStore keeps each collection as one JSON value.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a workspace database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a workspace that lives only as long as the process.
func OpenInMemory() (*BadgerStore, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// DefaultPath returns the workspace directory under XDG_DATA_HOME.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "sylly", "workspace")
}

// Load reads both collections. Missing keys read as empty lists.
func (s *BadgerStore) Load() (*State, error) {
	state := &State{Subjects: []string{}, Uploads: []models.UploadRecord{}}

	err := s.db.View(func(txn *badger.Txn) error {
		if err := getJSON(txn, KeySubjects, &state.Subjects); err != nil {
			return err
		}
		return getJSON(txn, KeyUploads, &state.Uploads)
	})
	if err != nil {
		return nil, err
	}

	if state.Subjects == nil {
		state.Subjects = []string{}
	}
	if state.Uploads == nil {
		state.Uploads = []models.UploadRecord{}
	}
	return state, nil
}

// Save replaces both collections in one transaction.
func (s *BadgerStore) Save(state *State) error {
	subjects, err := json.Marshal(state.Subjects)
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	uploads, err := json.Marshal(state.Uploads)
	if err != nil {
		return fmt.Errorf("marshal uploads: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(KeySubjects), subjects); err != nil {
			return err
		}
		return txn.Set([]byte(KeyUploads), uploads)
	})
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func getJSON(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		return nil
	})
}
