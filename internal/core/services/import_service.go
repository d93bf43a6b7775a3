package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// ImportService handles bringing grid files into the vault
type ImportService struct {
	repo ports.Repository
}

// NewImportService creates a new import service
func NewImportService(repo ports.Repository) *ImportService {
	return &ImportService{
		repo: repo,
	}
}

// ImportRequest represents a request to import a grid file
type ImportRequest struct {
	SourcePath string
	Name       string // defaults to the file name without extension
	Owner      string
	LastUpdate string
	Tolerance  float64
}

// ImportResponse represents the response from importing a grid file
type ImportResponse struct {
	Stored   *domain.StoredRecord
	FilePath string
}

// Execute loads the source grid, builds the record and saves it under a new slug
func (s *ImportService) Execute(ctx context.Context, req ImportRequest) (*ImportResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		base := filepath.Base(req.SourcePath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := domain.ValidateName(name); err != nil {
		return nil, fmt.Errorf("invalid name: %w", err)
	}

	var opts []domain.RecordOption
	if req.Owner != "" {
		opts = append(opts, domain.WithOwner(req.Owner))
	}
	if req.LastUpdate != "" {
		opts = append(opts, domain.WithLastUpdate(req.LastUpdate))
	}
	opts = append(opts, domain.WithTolerance(req.Tolerance))

	record, err := domain.LoadRecord(req.SourcePath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	source, err := filepath.Abs(req.SourcePath)
	if err != nil {
		source = req.SourcePath
	}

	header, err := domain.NewRecordHeader(name, source, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create record header: %w", err)
	}

	if s.repo.Exists(ctx, header.Slug) {
		return nil, fmt.Errorf("record '%s': %w", header.Slug, domain.ErrRecordExists)
	}

	stored := &domain.StoredRecord{
		Header: *header,
		Record: record,
	}

	if err := s.repo.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	return &ImportResponse{
		Stored:   stored,
		FilePath: header.Filename,
	}, nil
}
