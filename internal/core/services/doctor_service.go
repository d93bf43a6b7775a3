package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// DoctorService checks that every stored record still loads and that its
// metadata agrees with the grid on disk
type DoctorService struct {
	repo ports.Repository
}

// NewDoctorService creates a new doctor service
func NewDoctorService(repo ports.Repository) *DoctorService {
	return &DoctorService{
		repo: repo,
	}
}

// DoctorRequest controls whether fixable problems are repaired
type DoctorRequest struct {
	Fix bool
}

// RecordIssue is one problem found on a record
type RecordIssue struct {
	Slug    string
	Problem string
	Err     error
	Fixable bool
	Fixed   bool
}

// DoctorResponse lists the problems found
type DoctorResponse struct {
	Checked int
	Issues  []RecordIssue
}

// Healthy reports whether no unresolved issue remains
func (r *DoctorResponse) Healthy() bool {
	for _, issue := range r.Issues {
		if !issue.Fixed {
			return false
		}
	}
	return true
}

// Execute checks every record in the vault
func (s *DoctorService) Execute(ctx context.Context, req DoctorRequest) (*DoctorResponse, error) {
	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	resp := &DoctorResponse{Checked: len(headers)}

	for _, h := range headers {
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		default:
		}

		stored, err := s.repo.Get(ctx, h.Slug)
		if err != nil {
			resp.Issues = append(resp.Issues, RecordIssue{
				Slug:    h.Slug,
				Problem: "record cannot be loaded",
				Err:     err,
			})
			continue
		}

		var fixable []RecordIssue
		g := stored.Record.Grid()
		if h.Rows != g.Rows() || h.Cols != g.Cols() {
			fixable = append(fixable, RecordIssue{
				Slug:    h.Slug,
				Problem: fmt.Sprintf("metadata says %dx%d, grid is %dx%d", h.Rows, h.Cols, g.Rows(), g.Cols()),
				Fixable: true,
			})
		}
		if h.ID == uuid.Nil {
			fixable = append(fixable, RecordIssue{
				Slug:    h.Slug,
				Problem: "record has no id",
				Fixable: true,
			})
		}
		if domain.GenerateSlug(h.Name) != h.Slug {
			resp.Issues = append(resp.Issues, RecordIssue{
				Slug:    h.Slug,
				Problem: fmt.Sprintf("name %q does not match the slug (rename to fix)", h.Name),
			})
		}

		if req.Fix && len(fixable) > 0 {
			stored.Header.Rows, stored.Header.Cols = g.Rows(), g.Cols()
			if stored.Header.ID == uuid.Nil {
				stored.Header.ID = uuid.New()
			}
			err := s.repo.Save(ctx, stored)
			for i := range fixable {
				fixable[i].Err = err
				fixable[i].Fixed = err == nil
			}
		}
		resp.Issues = append(resp.Issues, fixable...)
	}

	return resp, nil
}
