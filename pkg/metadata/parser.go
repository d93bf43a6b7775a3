package metadata

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Metadata is the YAML sidecar stored next to each grid file
type Metadata struct {
	ID         uuid.UUID `yaml:"id"`
	Name       string    `yaml:"name"`
	Owner      string    `yaml:"owner"`
	LastUpdate string    `yaml:"last_update"`
	Tolerance  float64   `yaml:"tolerance"`
	Rows       int       `yaml:"rows"`
	Cols       int       `yaml:"cols"`
	Source     string    `yaml:"source,omitempty"`
	ImportedAt time.Time `yaml:"imported_at"`
}

// ParseError represents a metadata validation error
type ParseError struct {
	Field   string
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s - %s", e.Field, e.Message)
}

// ParseResult contains the parsing outcome with detailed error information
type ParseResult struct {
	Metadata *Metadata
	Errors   []ParseError
	Warnings []string
}

// Parser decodes and validates sidecar files
type Parser struct {
	strict bool
}

// NewParser creates a new metadata parser.
// In strict mode a missing id or name is an error and the owner and last update
// date are required too; otherwise missing id and name are only warnings.
func NewParser(strict bool) *Parser {
	return &Parser{
		strict: strict,
	}
}

// Parse decodes data and validates the mandatory fields
func (p *Parser) Parse(data []byte) (*ParseResult, error) {
	result := &ParseResult{
		Metadata: &Metadata{},
		Errors:   []ParseError{},
		Warnings: []string{},
	}

	if err := yaml.Unmarshal(data, result.Metadata); err != nil {
		return result, fmt.Errorf("invalid metadata yaml: %w", err)
	}

	m := result.Metadata
	m.Name = strings.TrimSpace(m.Name)

	if m.ID == uuid.Nil {
		p.missing(result, "id")
	}
	if m.Name == "" {
		p.missing(result, "name")
	}
	if m.Tolerance < 0 {
		result.Errors = append(result.Errors, ParseError{Field: "tolerance", Message: "must not be negative"})
	}

	if p.strict {
		if m.Owner == "" {
			result.Errors = append(result.Errors, ParseError{Field: "owner", Message: "missing mandatory field"})
		}
		if m.LastUpdate == "" {
			result.Errors = append(result.Errors, ParseError{Field: "last_update", Message: "missing mandatory field"})
		}
	}

	if m.Rows == 0 || m.Cols == 0 {
		result.Warnings = append(result.Warnings, "dimensions missing, will be read from the grid file")
	}

	if len(result.Errors) > 0 {
		return result, fmt.Errorf("parsing failed with %d errors: %v", len(result.Errors), result.Errors[0])
	}

	return result, nil
}

// missing records an absent identity field: an error in strict mode, a warning otherwise
func (p *Parser) missing(result *ParseResult, field string) {
	if p.strict {
		result.Errors = append(result.Errors, ParseError{Field: field, Message: "missing mandatory field"})
		return
	}
	result.Warnings = append(result.Warnings, field+" missing")
}

// Extract is a convenience function for non-strict parsing
func Extract(data []byte) (*Metadata, error) {
	result, err := NewParser(false).Parse(data)
	if err != nil {
		return nil, err
	}
	return result.Metadata, nil
}

// ExtractStrict is a convenience function for strict parsing
func ExtractStrict(data []byte) (*Metadata, error) {
	result, err := NewParser(true).Parse(data)
	if err != nil {
		return nil, err
	}
	return result.Metadata, nil
}

// Format encodes metadata as YAML
func Format(m *Metadata) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}
