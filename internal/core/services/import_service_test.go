package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports/mocks"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}
	return path
}

func TestImportService_Execute(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		content      string
		request      ImportRequest
		expectedSlug string
		expectErr    error
		errorMsg     string
	}{
		{
			name:         "name defaults to file name",
			file:         "Office Door.txt",
			content:      "0110\n1001\n",
			request:      ImportRequest{},
			expectedSlug: "office-door",
		},
		{
			name:         "explicit name and metadata",
			file:         "scan.txt",
			content:      "1\n",
			request:      ImportRequest{Name: "Front Gate", Owner: "Vivian", LastUpdate: "02/03/2024", Tolerance: 0.1},
			expectedSlug: "front-gate",
		},
		{
			name:      "invalid character",
			file:      "bad.txt",
			content:   "01\n0a\n",
			expectErr: domain.ErrInvalidCharacter,
		},
		{
			name:      "malformed date",
			file:      "scan.txt",
			content:   "1\n",
			request:   ImportRequest{LastUpdate: "2024-03-02"},
			expectErr: domain.ErrMalformedDate,
		},
		{
			name:      "negative tolerance",
			file:      "scan.txt",
			content:   "1\n",
			request:   ImportRequest{Tolerance: -0.5},
			expectErr: domain.ErrInvalidTolerance,
		},
		{
			name:     "name without letters or digits",
			file:     "scan.txt",
			content:  "1\n",
			request:  ImportRequest{Name: "---"},
			errorMsg: "invalid name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRepository()
			svc := NewImportService(repo)

			req := tt.request
			req.SourcePath = writeSource(t, tt.file, tt.content)

			resp, err := svc.Execute(context.Background(), req)

			if tt.expectErr != nil || tt.errorMsg != "" {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if tt.expectErr != nil && !errors.Is(err, tt.expectErr) {
					t.Errorf("error = %v, want %v", err, tt.expectErr)
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q does not contain %q", err, tt.errorMsg)
				}
				if headers, _ := repo.ListHeaders(context.Background()); len(headers) != 0 {
					t.Error("nothing should be saved on failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if resp.Stored.Header.Slug != tt.expectedSlug {
				t.Errorf("slug = %q, want %q", resp.Stored.Header.Slug, tt.expectedSlug)
			}
			if resp.FilePath != tt.expectedSlug+".txt" {
				t.Errorf("file path = %q", resp.FilePath)
			}
			if !filepath.IsAbs(resp.Stored.Header.Source) {
				t.Errorf("source %q should be absolute", resp.Stored.Header.Source)
			}
			if !repo.Exists(context.Background(), tt.expectedSlug) {
				t.Error("record was not saved")
			}

			if tt.request.Owner != "" && resp.Stored.Record.Owner() != tt.request.Owner {
				t.Errorf("owner = %q, want %q", resp.Stored.Record.Owner(), tt.request.Owner)
			}
			if tt.request.Owner == "" && resp.Stored.Record.Owner() != domain.DefaultOwner {
				t.Errorf("owner = %q, want default", resp.Stored.Record.Owner())
			}
			if resp.Stored.Record.Tolerance() != tt.request.Tolerance {
				t.Errorf("tolerance = %v, want %v", resp.Stored.Record.Tolerance(), tt.request.Tolerance)
			}
		})
	}
}

func TestImportService_Duplicate(t *testing.T) {
	repo := mocks.NewMockRepository()
	svc := NewImportService(repo)
	ctx := context.Background()

	path := writeSource(t, "lobby.txt", "1\n")

	if _, err := svc.Execute(ctx, ImportRequest{SourcePath: path}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	_, err := svc.Execute(ctx, ImportRequest{SourcePath: path, Name: "LOBBY"})
	if !errors.Is(err, domain.ErrRecordExists) {
		t.Errorf("error = %v, want ErrRecordExists", err)
	}
}

func TestImportService_SaveFailure(t *testing.T) {
	repo := mocks.NewMockRepository()
	repo.SaveErr = errors.New("disk full")
	svc := NewImportService(repo)

	_, err := svc.Execute(context.Background(), ImportRequest{SourcePath: writeSource(t, "lobby.txt", "1\n")})
	if err == nil || !strings.Contains(err.Error(), "failed to save record") {
		t.Errorf("error = %v, want save failure", err)
	}
}

func TestImportService_MissingFile(t *testing.T) {
	svc := NewImportService(mocks.NewMockRepository())

	_, err := svc.Execute(context.Background(), ImportRequest{SourcePath: filepath.Join(t.TempDir(), "nope.txt")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}
