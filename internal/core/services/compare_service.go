package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// CompareService compares two records of the vault
type CompareService struct {
	repo ports.Repository
}

// NewCompareService creates a new compare service
func NewCompareService(repo ports.Repository) *CompareService {
	return &CompareService{
		repo: repo,
	}
}

// CompareRequest names the subject and reference records by slug.
// Tolerance overrides the subject's own tolerance for the approximate check when set.
type CompareRequest struct {
	Subject   string
	Reference string
	Tolerance *float64
}

// CompareResponse holds every verdict of a comparison
type CompareResponse struct {
	Subject   *domain.StoredRecord
	Reference *domain.StoredRecord

	Exact       bool
	Approximate bool
	SameAs      bool
	// Corrupted is the raw IsCorrupted result: true when the subject is within
	// its own tolerance of the reference
	Corrupted bool

	// Comparable is false when the reference is smaller than the subject.
	// Mismatches, Rate and Diff are only set when it is true.
	Comparable      bool
	DimensionsMatch bool
	Mismatches      int
	Rate            float64
	Tolerance       float64
	Diff            []domain.Cell
}

// Execute loads both records and compares them
func (s *CompareService) Execute(ctx context.Context, req CompareRequest) (*CompareResponse, error) {
	subject, err := s.repo.Get(ctx, req.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}

	reference, err := s.repo.Get(ctx, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference: %w", err)
	}

	resp, err := CompareRecords(subject.Record, reference.Record, req.Tolerance)
	if err != nil {
		return nil, err
	}
	resp.Subject = subject
	resp.Reference = reference

	return resp, nil
}

// CompareRecords runs every predicate of subject against reference
func CompareRecords(subject, reference *domain.Record, tolerance *float64) (*CompareResponse, error) {
	tol := subject.Tolerance()
	if tolerance != nil {
		if err := domain.ValidateTolerance(*tolerance); err != nil {
			return nil, err
		}
		tol = *tolerance
	}

	sg, rg := subject.Grid(), reference.Grid()

	resp := &CompareResponse{
		Exact:           sg.Equals(rg),
		Approximate:     sg.ApproximatelyEqual(rg, tol),
		SameAs:          subject.SameAs(reference),
		Corrupted:       subject.IsCorrupted(reference),
		DimensionsMatch: sg.SameDimensions(rg),
		Tolerance:       tol,
	}

	rate, err := sg.MismatchRate(rg)
	switch {
	case errors.Is(err, domain.ErrDimensionMismatch):
		slog.Debug("reference smaller than subject", "subject", sg.String(), "reference", rg.String())
		return resp, nil
	case err != nil:
		return nil, err
	}

	diff, err := sg.Diff(rg)
	if err != nil {
		return nil, err
	}

	resp.Comparable = true
	resp.Rate = rate
	resp.Diff = diff
	resp.Mismatches = len(diff)

	return resp, nil
}
