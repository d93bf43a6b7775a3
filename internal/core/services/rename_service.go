package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// RenameService gives a stored record a new name and slug
type RenameService struct {
	repo ports.Repository
}

// NewRenameService creates a new rename service
func NewRenameService(repo ports.Repository) *RenameService {
	return &RenameService{
		repo: repo,
	}
}

// RenameRequest represents a rename of one record
type RenameRequest struct {
	Slug    string
	NewName string
}

// RenameResponse reports the old and new identity of the record
type RenameResponse struct {
	OldSlug string
	NewSlug string
	NewName string
}

// Execute renames the record. The ID and all other metadata are kept.
func (s *RenameService) Execute(ctx context.Context, req RenameRequest) (*RenameResponse, error) {
	name := strings.TrimSpace(req.NewName)
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	stored, err := s.repo.Get(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	newSlug := domain.GenerateSlug(name)
	if newSlug != req.Slug && s.repo.Exists(ctx, newSlug) {
		return nil, fmt.Errorf("%s: %w", newSlug, domain.ErrRecordExists)
	}

	renamed := &domain.StoredRecord{
		Header: stored.Header,
		Record: stored.Record,
	}
	renamed.Header.Name = name
	renamed.Header.Slug = newSlug
	renamed.Header.Filename = domain.GenerateFilename(newSlug)

	if err := s.repo.Save(ctx, renamed); err != nil {
		return nil, fmt.Errorf("failed to save renamed record: %w", err)
	}

	if newSlug != req.Slug {
		if err := s.repo.Delete(ctx, req.Slug); err != nil {
			return nil, fmt.Errorf("renamed to %s but failed to remove %s: %w", newSlug, req.Slug, err)
		}
	}

	return &RenameResponse{
		OldSlug: req.Slug,
		NewSlug: newSlug,
		NewName: name,
	}, nil
}
