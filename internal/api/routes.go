// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/sylly/backend/internal/calendar"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Pipeline       Pipeline
	Lister         Lister
	TempDir        string
	Version        string
	ExtractionMode string
	Calendar       *calendar.Encoder
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Upload   UploadHandler
	Calendar CalendarHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.ExtractionMode),
		Upload:   NewUploadHandler(deps.Pipeline, deps.Lister, deps.TempDir),
		Calendar: NewCalendarHandler(deps.Calendar),
	}
}

// ExtractPath is the upload endpoint. Request timeouts skip it, the
// extractor has its own.
const ExtractPath = "/api/extract"

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/health", handlers.Health.HandleHealth)

	g := e.Group("/api")
	g.GET("/health", handlers.Health.HandleHealth)
	g.POST("/extract", handlers.Upload.HandleExtract)
	g.GET("/uploads", handlers.Upload.HandleListUploads)
	g.POST("/calendar", handlers.Calendar.HandleExportCalendar)
}

// SetupErrorHandling installs the uniform error body.
func SetupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
