package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/qrx/internal/core/domain"
)

// MockRepository is an in-memory implementation of the Repository interface for testing
type MockRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.StoredRecord

	// SaveErr, when set, is returned by Save
	SaveErr error
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		records: make(map[string]*domain.StoredRecord),
	}
}

// ListHeaders returns all record headers
func (m *MockRepository) ListHeaders(ctx context.Context) ([]domain.RecordHeader, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	headers := make([]domain.RecordHeader, 0, len(m.records))
	for _, r := range m.records {
		headers = append(headers, r.Header)
	}
	return headers, nil
}

// Save persists a record in memory
func (m *MockRepository) Save(ctx context.Context, record *domain.StoredRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.Header.Slug] = record
	return nil
}

// Get retrieves a record by slug
func (m *MockRepository) Get(ctx context.Context, slug string) (*domain.StoredRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[slug]
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, domain.ErrRecordNotFound)
	}
	return r, nil
}

// Exists checks if a record with the given slug exists
func (m *MockRepository) Exists(ctx context.Context, slug string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.records[slug]
	return ok
}

// Delete removes a record by slug
func (m *MockRepository) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[slug]; !ok {
		return fmt.Errorf("%s: %w", slug, domain.ErrRecordNotFound)
	}

	delete(m.records, slug)
	return nil
}
