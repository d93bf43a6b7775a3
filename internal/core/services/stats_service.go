package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// StatsService aggregates figures over the whole vault
type StatsService struct {
	repo ports.Repository
}

// NewStatsService creates a new stats service
func NewStatsService(repo ports.Repository) *StatsService {
	return &StatsService{
		repo: repo,
	}
}

// OwnerCount is the number of records held by one owner
type OwnerCount struct {
	Owner string
	Count int
}

// YearCount is the number of records last updated in one year
type YearCount struct {
	Year  string
	Count int
}

// StatsResponse holds the vault figures
type StatsResponse struct {
	Records       int
	Unreadable    int
	TotalCells    int
	SetCells      int
	MeanTolerance float64
	Owners        []OwnerCount // most records first
	Years         []YearCount  // oldest first, undated records left out
	Largest       *domain.RecordHeader
	Latest        *domain.RecordHeader
}

// FillRatio is the share of set cells across all readable grids
func (r *StatsResponse) FillRatio() float64 {
	if r.TotalCells == 0 {
		return 0
	}
	return float64(r.SetCells) / float64(r.TotalCells)
}

// Execute loads every record and aggregates the figures
func (s *StatsService) Execute(ctx context.Context) (*StatsResponse, error) {
	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	resp := &StatsResponse{Records: len(headers)}
	owners := make(map[string]int)
	years := make(map[string]int)
	toleranceSum := 0.0

	for i := range headers {
		h := &headers[i]

		owners[h.Owner]++
		toleranceSum += h.Tolerance

		if resp.Largest == nil || h.Rows*h.Cols > resp.Largest.Rows*resp.Largest.Cols {
			resp.Largest = h
		}
		if resp.Latest == nil || h.GetDateSortKey() > resp.Latest.GetDateSortKey() {
			resp.Latest = h
		}
		if d, err := domain.ParseDate(h.LastUpdate); err == nil && h.LastUpdate != domain.DefaultLastUpdate {
			years[d.Year]++
		}

		stored, err := s.repo.Get(ctx, h.Slug)
		if err != nil {
			slog.Warn("skipping unreadable record", "slug", h.Slug, "error", err)
			resp.Unreadable++
			continue
		}

		g := stored.Record.Grid()
		resp.TotalCells += g.PixelCount()
		for _, row := range g.Cells() {
			for _, c := range row {
				resp.SetCells += int(c)
			}
		}
	}

	if len(headers) > 0 {
		resp.MeanTolerance = toleranceSum / float64(len(headers))
	}

	for owner, n := range owners {
		resp.Owners = append(resp.Owners, OwnerCount{Owner: owner, Count: n})
	}
	sort.Slice(resp.Owners, func(i, j int) bool {
		if resp.Owners[i].Count != resp.Owners[j].Count {
			return resp.Owners[i].Count > resp.Owners[j].Count
		}
		return resp.Owners[i].Owner < resp.Owners[j].Owner
	})

	for year, n := range years {
		resp.Years = append(resp.Years, YearCount{Year: year, Count: n})
	}
	sort.Slice(resp.Years, func(i, j int) bool {
		return resp.Years[i].Year < resp.Years[j].Year
	})

	return resp, nil
}
