// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/sylly/backend/internal/models"
	"github.com/sylly/backend/internal/upload"
)

// UploadHandler handles document uploads and the upload directory listing
type UploadHandler interface {
	HandleExtract(c echo.Context) error
	HandleListUploads(c echo.Context) error
}

// CalendarHandler handles iCalendar export
type CalendarHandler interface {
	HandleExportCalendar(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Pipeline runs one submission through validation, storage and extraction.
// This allows mocking in tests
type Pipeline interface {
	Process(ctx context.Context, sub *upload.Submission) (*upload.Job, error)
}

// Lister lists the upload directory.
type Lister interface {
	List() ([]models.ListedFile, error)
}
