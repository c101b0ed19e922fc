// Package extract turns a stored document into calendar events by delegating
// to an extraction collaborator.
package extract

import (
	"context"

	"github.com/sylly/backend/internal/models"
)

// Extractor produces the events found in the document at path.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]models.Event, error)
}
