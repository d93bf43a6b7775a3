package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
	"github.com/kamal-hamza/qrx/pkg/metadata"
	"github.com/kamal-hamza/qrx/pkg/vault"
)

// FileRepository stores each record as a grid file plus a YAML sidecar in the vault
type FileRepository struct {
	vault *vault.Vault
	mu    sync.RWMutex
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(vault *vault.Vault) *FileRepository {
	return &FileRepository{
		vault: vault,
	}
}

// Ensure it implements the interface
var _ ports.Repository = (*FileRepository)(nil)

// ListHeaders returns all record headers by reading the sidecars only.
// A grid whose sidecar is missing or unreadable still gets a bare header.
func (r *FileRepository) ListHeaders(ctx context.Context) ([]domain.RecordHeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.vault.RecordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read records directory: %w", err)
	}

	var headers []domain.RecordHeader
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != domain.GridExt {
			continue
		}

		slug := domain.ParseFilename(entry.Name())
		meta, err := r.readMetadata(slug)
		if err != nil {
			// Keep it listed so Get reports the problem instead of the record vanishing
			slog.Warn("record has unreadable metadata", "slug", slug, "error", err)
			meta = &metadata.Metadata{}
		}
		headers = append(headers, headerFromMetadata(slug, meta))
	}

	return headers, nil
}

// Get loads the grid and metadata of a record and rebuilds the domain record
func (r *FileRepository) Get(ctx context.Context, slug string) (*domain.StoredRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gridPath := r.vault.GetRecordPath(domain.GenerateFilename(slug))
	if _, err := os.Stat(gridPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", slug, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to stat record: %w", err)
	}

	meta, err := r.readMetadata(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	opts := []domain.RecordOption{domain.WithTolerance(meta.Tolerance)}
	if meta.Owner != "" {
		opts = append(opts, domain.WithOwner(meta.Owner))
	}
	if meta.LastUpdate != "" {
		opts = append(opts, domain.WithLastUpdate(meta.LastUpdate))
	}

	record, err := domain.LoadRecord(gridPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", slug, err)
	}

	header := headerFromMetadata(slug, meta)
	header.Owner = record.Owner()
	header.LastUpdate = record.LastUpdate().String()
	header.Rows = record.Grid().Rows()
	header.Cols = record.Grid().Cols()

	return &domain.StoredRecord{
		Header: header,
		Record: record,
	}, nil
}

// Save writes the grid file and its sidecar
func (r *FileRepository) Save(ctx context.Context, stored *domain.StoredRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := stored.Header
	meta := &metadata.Metadata{
		ID:         h.ID,
		Name:       h.Name,
		Owner:      h.Owner,
		LastUpdate: h.LastUpdate,
		Tolerance:  h.Tolerance,
		Rows:       stored.Record.Grid().Rows(),
		Cols:       stored.Record.Grid().Cols(),
		Source:     h.Source,
		ImportedAt: h.ImportedAt,
	}

	data, err := metadata.Format(meta)
	if err != nil {
		return err
	}

	gridPath := r.vault.GetRecordPath(h.Filename)
	if err := os.WriteFile(gridPath, []byte(stored.Record.Grid().Text()), 0644); err != nil {
		return fmt.Errorf("failed to write grid file: %w", err)
	}

	if err := os.WriteFile(r.metadataPath(h.Slug), data, 0644); err != nil {
		// Don't leave a grid without a sidecar behind
		_ = os.Remove(gridPath)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// Delete removes the grid file and its sidecar
func (r *FileRepository) Delete(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	gridPath := r.vault.GetRecordPath(domain.GenerateFilename(slug))
	if err := os.Remove(gridPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", slug, domain.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to remove grid file: %w", err)
	}

	if err := os.Remove(r.metadataPath(slug)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove metadata: %w", err)
	}

	return nil
}

// Exists checks if a slug exists
func (r *FileRepository) Exists(ctx context.Context, slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err := os.Stat(r.vault.GetRecordPath(domain.GenerateFilename(slug)))
	return err == nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (r *FileRepository) metadataPath(slug string) string {
	return r.vault.GetRecordPath(slug + domain.MetadataExt)
}

// readMetadata treats a missing sidecar as empty metadata
func (r *FileRepository) readMetadata(slug string) (*metadata.Metadata, error) {
	data, err := os.ReadFile(r.metadataPath(slug))
	if errors.Is(err, os.ErrNotExist) {
		return &metadata.Metadata{}, nil
	}
	if err != nil {
		return nil, err
	}
	return metadata.Extract(data)
}

func headerFromMetadata(slug string, meta *metadata.Metadata) domain.RecordHeader {
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = slug
	}

	return domain.RecordHeader{
		ID:         meta.ID,
		Name:       name,
		Owner:      meta.Owner,
		LastUpdate: meta.LastUpdate,
		Tolerance:  meta.Tolerance,
		Rows:       meta.Rows,
		Cols:       meta.Cols,
		Source:     meta.Source,
		ImportedAt: meta.ImportedAt,
		Slug:       slug,
		Filename:   domain.GenerateFilename(slug),
	}
}
