package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/qrx/internal/core/domain"
)

// Repository defines the port for record persistence operations
type Repository interface {
	// ListHeaders returns all record headers (lightweight operation)
	ListHeaders(ctx context.Context) ([]domain.RecordHeader, error)

	// Save persists a record to storage
	Save(ctx context.Context, record *domain.StoredRecord) error

	// Get retrieves a record by slug, loading its grid
	Get(ctx context.Context, slug string) (*domain.StoredRecord, error)

	// Exists checks if a record with the given slug exists
	Exists(ctx context.Context, slug string) bool

	// Delete removes a record by slug
	Delete(ctx context.Context, slug string) error
}

// DiffRenderer renders the mismatch map of two grids
type DiffRenderer interface {
	// Render writes a visual of the cells of subject that differ from reference
	Render(w io.Writer, title string, subject, reference *domain.Grid) error
}
