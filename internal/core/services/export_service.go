package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// ExportService writes pretty renderings of stored records
type ExportService struct {
	repo       ports.Repository
	exportsDir string
}

// NewExportService creates a new export service writing into exportsDir by default
func NewExportService(repo ports.Repository, exportsDir string) *ExportService {
	return &ExportService{
		repo:       repo,
		exportsDir: exportsDir,
	}
}

// ExportRequest represents a request to export one record
type ExportRequest struct {
	Slug       string
	OutputPath string // defaults to <exports>/<slug>.txt
}

// ExportResponse represents the result of exporting one record
type ExportResponse struct {
	Slug       string
	OutputPath string
	Lines      []string
	Success    bool
	Error      error
}

// ExportAllRequest represents a request to export every record
type ExportAllRequest struct {
	MaxWorkers int
}

// ExportAllResponse aggregates the results of an ExportAll run
type ExportAllResponse struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []ExportResponse
}

// ExportProgress reports one finished export
type ExportProgress struct {
	Current int
	Total   int
	Slug    string
	Success bool
	Error   error
}

// Execute exports a single record
func (s *ExportService) Execute(ctx context.Context, req ExportRequest) (*ExportResponse, error) {
	stored, err := s.repo.Get(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = s.defaultPath(req.Slug)
	}

	if err := SavePretty(stored.Record.Grid(), outputPath); err != nil {
		return nil, err
	}

	return &ExportResponse{
		Slug:       req.Slug,
		OutputPath: outputPath,
		Lines:      stored.Record.Grid().Render(),
		Success:    true,
	}, nil
}

// SavePretty writes the pretty rendering of grid to path, creating parent directories
func SavePretty(grid *domain.Grid, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := grid.WritePretty(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

// ExecuteAll exports every record concurrently
func (s *ExportService) ExecuteAll(ctx context.Context, req ExportAllRequest) (*ExportAllResponse, error) {
	progress := make(chan ExportProgress)
	go func() {
		for range progress {
		}
	}()
	return s.ExecuteAllWithProgress(ctx, req, progress)
}

// ExecuteAllWithProgress exports every record and reports each result on progressChan.
// progressChan is closed when the run ends.
func (s *ExportService) ExecuteAllWithProgress(ctx context.Context, req ExportAllRequest, progressChan chan<- ExportProgress) (*ExportAllResponse, error) {
	defer close(progressChan)

	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	if len(headers) == 0 {
		return &ExportAllResponse{Results: []ExportResponse{}}, nil
	}

	maxWorkers := req.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobs := make(chan domain.RecordHeader, len(headers))
	results := make(chan ExportResponse, len(headers))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, jobs, results)
		}()
	}

	for _, header := range headers {
		jobs <- header
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	response := &ExportAllResponse{Total: len(headers)}
	for result := range results {
		response.Results = append(response.Results, result)
		if result.Success {
			response.Succeeded++
		} else {
			response.Failed++
		}

		progressChan <- ExportProgress{
			Current: len(response.Results),
			Total:   response.Total,
			Slug:    result.Slug,
			Success: result.Success,
			Error:   result.Error,
		}
	}

	return response, nil
}

func (s *ExportService) worker(ctx context.Context, jobs <-chan domain.RecordHeader, results chan<- ExportResponse) {
	for header := range jobs {
		select {
		case <-ctx.Done():
			results <- ExportResponse{Slug: header.Slug, Error: ctx.Err()}
			continue
		default:
		}

		resp, err := s.Execute(ctx, ExportRequest{Slug: header.Slug})
		if err != nil {
			results <- ExportResponse{Slug: header.Slug, Error: err}
			continue
		}
		results <- *resp
	}
}

func (s *ExportService) defaultPath(slug string) string {
	return filepath.Join(s.exportsDir, domain.GenerateFilename(slug))
}
