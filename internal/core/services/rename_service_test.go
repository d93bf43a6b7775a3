package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports/mocks"
)

func TestRenameService_Execute(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		newName  string
		wantSlug string
		wantErr  error
	}{
		{"new slug", "front-door", "Main Entrance", "main-entrance", nil},
		{"same slug", "front-door", "Front  Door", "front-door", nil},
		{"taken", "front-door", "Lobby", "", domain.ErrRecordExists},
		{"missing", "nope", "Anything", "", domain.ErrRecordNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRepository()
			original := createTestRecord(repo, "Front Door", "Facilities", "01/02/2023", "10\n01\n")
			createTestRecord(repo, "Lobby", "Security", "03/03/2024", "1\n")

			svc := NewRenameService(repo)
			resp, err := svc.Execute(context.Background(), RenameRequest{Slug: tt.slug, NewName: tt.newName})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() failed: %v", err)
			}

			if resp.NewSlug != tt.wantSlug {
				t.Errorf("NewSlug = %q, want %q", resp.NewSlug, tt.wantSlug)
			}

			got, err := repo.Get(context.Background(), tt.wantSlug)
			if err != nil {
				t.Fatalf("renamed record not found: %v", err)
			}
			if got.Header.ID != original.Header.ID {
				t.Error("rename changed the record ID")
			}
			if got.Header.Name != tt.newName {
				t.Errorf("Name = %q, want %q", got.Header.Name, tt.newName)
			}
			if got.Header.Owner != "Facilities" {
				t.Errorf("Owner = %q", got.Header.Owner)
			}

			if tt.wantSlug != tt.slug && repo.Exists(context.Background(), tt.slug) {
				t.Error("old slug still exists")
			}
		})
	}
}

func TestRenameService_InvalidName(t *testing.T) {
	repo := mocks.NewMockRepository()
	createTestRecord(repo, "Front Door", "Facilities", "01/02/2023", "1\n")

	if _, err := NewRenameService(repo).Execute(context.Background(), RenameRequest{Slug: "front-door", NewName: "   "}); err == nil {
		t.Error("expected error for empty name")
	}
}
