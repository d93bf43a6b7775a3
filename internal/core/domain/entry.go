package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// GridExt is the extension of stored grid files
	GridExt = ".txt"
	// MetadataExt is the extension of the metadata sidecar
	MetadataExt = ".yaml"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// RecordHeader is the lightweight vault view of a stored record.
// Used for listing without loading the grid.
type RecordHeader struct {
	ID         uuid.UUID
	Name       string
	Owner      string
	LastUpdate string // DD/MM/YYYY
	Tolerance  float64
	Rows       int
	Cols       int
	Source     string // original import path
	ImportedAt time.Time
	Slug       string // e.g. "office-door"
	Filename   string // e.g. "office-door.txt"
}

// StoredRecord pairs a vault header with the loaded domain record
type StoredRecord struct {
	Header RecordHeader
	Record *Record
}

// GenerateSlug creates a file-friendly slug from a name
// Converts "Office Door (v2)" -> "office-door-v2"
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slugDashes.ReplaceAllString(slug, "-")
}

// GenerateFilename returns the grid filename for a slug
func GenerateFilename(slug string) string {
	return slug + GridExt
}

// ParseFilename extracts the slug from a grid filename
func ParseFilename(filename string) string {
	return strings.TrimSuffix(filename, GridExt)
}

// ValidateName checks if a record name is usable
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > 200 {
		return fmt.Errorf("name too long (max 200 characters)")
	}

	if GenerateSlug(name) == "" {
		return fmt.Errorf("name must contain at least one letter or digit")
	}

	return nil
}

// NewRecordHeader builds a header for a freshly imported record
func NewRecordHeader(name, source string, record *Record) (*RecordHeader, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	slug := GenerateSlug(name)

	return &RecordHeader{
		ID:         uuid.New(),
		Name:       name,
		Owner:      record.Owner(),
		LastUpdate: record.LastUpdate().String(),
		Tolerance:  record.Tolerance(),
		Rows:       record.Grid().Rows(),
		Cols:       record.Grid().Cols(),
		Source:     source,
		ImportedAt: time.Now().UTC(),
		Slug:       slug,
		Filename:   GenerateFilename(slug),
	}, nil
}

// GetDimensions returns "ROWSxCOLS"
func (h *RecordHeader) GetDimensions() string {
	return fmt.Sprintf("%dx%d", h.Rows, h.Cols)
}

// GetToleranceString formats the tolerance as a percentage
func (h *RecordHeader) GetToleranceString() string {
	return strconv.FormatFloat(h.Tolerance*100, 'f', -1, 64) + "%"
}

// GetDateSortKey returns a YYYYMMDD key, or the raw value when it does not parse
func (h *RecordHeader) GetDateSortKey() string {
	d, err := ParseDate(h.LastUpdate)
	if err != nil {
		return h.LastUpdate
	}
	return d.SortKey()
}
