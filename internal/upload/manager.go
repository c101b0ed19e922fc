package upload

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sylly/backend/internal/extract"
	"github.com/sylly/backend/internal/models"
)

// Stage is the pipeline step a job is in or failed at.
type Stage string

const (
	StageValidating Stage = "validating"
	StageStoring    Stage = "storing"
	StageExtracting Stage = "extracting"
	StageComplete   Stage = "complete"
	StageError      Stage = "error"
)

// Job records one pass of a submission through the pipeline.
type Job struct {
	ID          string
	FileName    string
	Stage       Stage
	FailedAt    Stage
	File        *models.UploadedFile
	Events      []models.Event
	Err         error
	CreatedAt   time.Time
	CompletedAt time.Time
}

// Store defines the interface needed from the storage layer.
type Store interface {
	Put(tempPath, ext string) (*models.UploadedFile, error)
}

// Manager runs submissions through validate, store and extract.
type Manager struct {
	validator *Validator
	store     Store
	extractor extract.Extractor
	log       *logrus.Entry
}

// NewManager creates a new upload pipeline.
func NewManager(validator *Validator, store Store, extractor extract.Extractor) *Manager {
	return &Manager{
		validator: validator,
		store:     store,
		extractor: extractor,
		log:       logrus.WithField("component", "upload"),
	}
}

// Process validates sub, moves it into storage and extracts its events.
// Nothing is written when validation fails. A stored file is kept even if
// extraction fails afterwards. The returned error is the job's Err.
func (m *Manager) Process(ctx context.Context, sub *Submission) (*Job, error) {
	job := &Job{
		ID:        uuid.New().String(),
		FileName:  sub.Filename,
		Stage:     StageValidating,
		CreatedAt: time.Now(),
	}
	log := m.log.WithFields(logrus.Fields{"job": job.ID[:8], "file": sub.Filename})
	log.WithField("size", sub.Size).Debug("processing upload")

	verdict, err := m.validator.Validate(sub)
	if err != nil {
		return m.fail(job, log, err)
	}

	job.Stage = StageStoring
	file, err := m.store.Put(sub.TempPath, verdict.Extension)
	if err != nil {
		return m.fail(job, log, err)
	}
	file.OriginalName = sub.Filename
	file.MimeType = verdict.MimeType
	file.Size = sub.Size
	job.File = file
	log.WithFields(logrus.Fields{"stored": file.StoredName, "mime": file.MimeType}).Info("upload stored")

	job.Stage = StageExtracting
	events, err := m.extractor.Extract(ctx, file.StoredPath)
	if err != nil {
		return m.fail(job, log, err)
	}
	if events == nil {
		events = []models.Event{}
	}

	job.Events = events
	job.Stage = StageComplete
	job.CompletedAt = time.Now()
	log.WithFields(logrus.Fields{
		"events":  len(events),
		"elapsed": job.CompletedAt.Sub(job.CreatedAt).String(),
	}).Info("upload processed")

	return job, nil
}

func (m *Manager) fail(job *Job, log *logrus.Entry, err error) (*Job, error) {
	job.FailedAt = job.Stage
	job.Stage = StageError
	job.Err = err
	job.CompletedAt = time.Now()
	log.WithField("stage", job.FailedAt).WithError(err).Warn("upload failed")
	return job, err
}
