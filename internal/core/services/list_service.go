package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// ListService handles listing and filtering stored records
type ListService struct {
	repo ports.Repository
}

// NewListService creates a new list service
func NewListService(repo ports.Repository) *ListService {
	return &ListService{
		repo: repo,
	}
}

// ListRequest represents a request to list records
type ListRequest struct {
	OwnerFilter string // Filter by owner, case-insensitive (optional)
	SortBy      string // "name", "owner", "date", "size" (default: name)
	Reverse     bool
}

// ListResponse represents the response from listing records
type ListResponse struct {
	Records []domain.RecordHeader
	Total   int
}

// Execute lists records with optional filtering and sorting
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	if req.OwnerFilter != "" {
		headers = filterByOwner(headers, req.OwnerFilter)
	}

	sortHeaders(headers, req.SortBy, req.Reverse)

	return &ListResponse{
		Records: headers,
		Total:   len(headers),
	}, nil
}

func filterByOwner(headers []domain.RecordHeader, owner string) []domain.RecordHeader {
	var filtered []domain.RecordHeader
	for _, header := range headers {
		if strings.EqualFold(header.Owner, owner) {
			filtered = append(filtered, header)
		}
	}
	return filtered
}

func sortHeaders(headers []domain.RecordHeader, sortBy string, reverse bool) {
	key := func(h *domain.RecordHeader) string {
		return strings.ToLower(h.Name)
	}

	sort.SliceStable(headers, func(i, j int) bool {
		a, b := &headers[i], &headers[j]
		var less bool
		switch sortBy {
		case "owner":
			if !strings.EqualFold(a.Owner, b.Owner) {
				less = strings.ToLower(a.Owner) < strings.ToLower(b.Owner)
			} else {
				less = key(a) < key(b)
			}
		case "date":
			if a.GetDateSortKey() != b.GetDateSortKey() {
				less = a.GetDateSortKey() < b.GetDateSortKey()
			} else {
				less = key(a) < key(b)
			}
		case "size":
			if a.Rows*a.Cols != b.Rows*b.Cols {
				less = a.Rows*a.Cols < b.Rows*b.Cols
			} else {
				less = key(a) < key(b)
			}
		default: // "name"
			less = key(a) < key(b)
		}
		if reverse {
			return !less
		}
		return less
	})
}

// SearchRequest represents a search query
type SearchRequest struct {
	Query string
}

// SearchResponse represents search results
type SearchResponse struct {
	Records []domain.RecordHeader
	Total   int
}

// Search performs fuzzy search on record names, slugs and owners
func (s *ListService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	if strings.TrimSpace(req.Query) == "" {
		sortHeaders(headers, "name", false)
		return &SearchResponse{
			Records: headers,
			Total:   len(headers),
		}, nil
	}

	matches := fuzzySearch(headers, req.Query)

	return &SearchResponse{
		Records: matches,
		Total:   len(matches),
	}, nil
}

// fuzzyMatch represents a scored match
type fuzzyMatch struct {
	header domain.RecordHeader
	score  int
}

// fuzzySearch ranks headers by their best matching field
func fuzzySearch(headers []domain.RecordHeader, query string) []domain.RecordHeader {
	query = strings.TrimSpace(query)
	if query == "" {
		return headers
	}

	var matches []fuzzyMatch

	for _, header := range headers {
		if score := fuzzyMatchScore(header.Name, query); score > 0 {
			matches = append(matches, fuzzyMatch{header: header, score: score + 1000})
			continue
		}

		if score := fuzzyMatchScore(header.Slug, query); score > 0 {
			matches = append(matches, fuzzyMatch{header: header, score: score + 500})
			continue
		}

		if score := fuzzyMatchScore(header.Owner, query); score > 0 {
			matches = append(matches, fuzzyMatch{header: header, score: score + 200})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	result := make([]domain.RecordHeader, len(matches))
	for i, m := range matches {
		result[i] = m.header
	}

	return result
}

// fuzzyMatchScore calculates a score for fuzzy matching query against text.
// Returns 0 if no match, higher scores for better matches.
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if text == query {
		return 10000
	}

	if textLower == queryLower {
		return 9000
	}

	if strings.Contains(textLower, queryLower) {
		score := 5000
		if strings.HasPrefix(textLower, queryLower) {
			score += 2000
		}
		return score
	}

	score := 0
	textRunes := []rune(textLower)
	queryRunes := []rune(queryLower)

	queryIdx := 0
	consecutive := 0
	lastMatchIdx := -1

	for textIdx := 0; textIdx < len(textRunes) && queryIdx < len(queryRunes); textIdx++ {
		if textRunes[textIdx] != queryRunes[queryIdx] {
			continue
		}

		score += 100

		if textIdx == lastMatchIdx+1 {
			consecutive++
			score += consecutive * 50
		} else {
			consecutive = 0
		}

		if textIdx == 0 || isWordBoundary(textRunes[textIdx-1]) {
			score += 200
		}
		if textIdx == 0 {
			score += 300
		}

		lastMatchIdx = textIdx
		queryIdx++
	}

	// Every query rune must be consumed
	if queryIdx != len(queryRunes) {
		return 0
	}

	score -= (lastMatchIdx + 1 - len(queryRunes)) * 10
	if score < 1 {
		score = 1
	}

	return score
}

func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_'
}
