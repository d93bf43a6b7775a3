package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/metadata"
	"github.com/kamal-hamza/qrx/pkg/vault"
)

func newTestRepository(t *testing.T) (*FileRepository, *vault.Vault) {
	t.Helper()
	root := t.TempDir()
	v := vault.NewAt(root, filepath.Join(root, "config.yaml"))
	if err := v.Initialize(); err != nil {
		t.Fatalf("failed to initialize vault: %v", err)
	}
	return NewFileRepository(v), v
}

func newStoredRecord(t *testing.T, name, text string, opts ...domain.RecordOption) *domain.StoredRecord {
	t.Helper()
	g, err := domain.ParseGrid(text)
	if err != nil {
		t.Fatal(err)
	}
	r, err := domain.NewRecord(g, opts...)
	if err != nil {
		t.Fatal(err)
	}
	h, err := domain.NewRecordHeader(name, "/src/"+name+".txt", r)
	if err != nil {
		t.Fatal(err)
	}
	return &domain.StoredRecord{Header: *h, Record: r}
}

func TestFileRepository_SaveAndGet(t *testing.T) {
	repo, v := newTestRepository(t)
	ctx := context.Background()

	stored := newStoredRecord(t, "Office Door", "0110\n1001\n",
		domain.WithOwner("Vivian"), domain.WithLastUpdate("01/09/2024"), domain.WithTolerance(0.1))

	if err := repo.Save(ctx, stored); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	for _, name := range []string{"office-door.txt", "office-door.yaml"} {
		if _, err := os.Stat(v.GetRecordPath(name)); err != nil {
			t.Errorf("expected %s in vault: %v", name, err)
		}
	}

	got, err := repo.Get(ctx, "office-door")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if !got.Record.SameAs(stored.Record) {
		t.Error("loaded record is not the same as the saved one")
	}
	if got.Record.Owner() != "Vivian" || got.Record.LastUpdate().Year != "2024" {
		t.Errorf("metadata not restored: owner=%q date=%v", got.Record.Owner(), got.Record.LastUpdate())
	}
	if got.Header.ID != stored.Header.ID {
		t.Errorf("ID = %v, want %v", got.Header.ID, stored.Header.ID)
	}
	if got.Header.Rows != 2 || got.Header.Cols != 4 {
		t.Errorf("dimensions = %dx%d", got.Header.Rows, got.Header.Cols)
	}
}

func TestFileRepository_ListHeaders(t *testing.T) {
	repo, v := newTestRepository(t)
	ctx := context.Background()

	for _, name := range []string{"Lobby", "Front Gate", "Parking"} {
		if err := repo.Save(ctx, newStoredRecord(t, name, "01\n10\n")); err != nil {
			t.Fatal(err)
		}
	}

	// A grid without a sidecar is listed with a bare header, unrelated files are skipped
	if err := os.WriteFile(v.GetRecordPath("orphan.txt"), []byte("1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(v.GetRecordPath("notes.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	headers, err := repo.ListHeaders(ctx)
	if err != nil {
		t.Fatalf("ListHeaders() failed: %v", err)
	}
	if len(headers) != 4 {
		t.Fatalf("ListHeaders() returned %d headers, want 4", len(headers))
	}

	for _, h := range headers {
		if h.Slug == "orphan" {
			if h.ID != uuid.Nil || h.Name != "orphan" {
				t.Errorf("orphan header = %+v, want nil ID and slug as name", h)
			}
			continue
		}
		if h.Rows != 2 || h.Cols != 2 {
			t.Errorf("%s dimensions = %s", h.Slug, h.GetDimensions())
		}
	}
}

func TestFileRepository_GetIncompleteMetadata(t *testing.T) {
	tests := []struct {
		name    string
		sidecar string // empty means no sidecar file
	}{
		{"no sidecar", ""},
		{"sidecar without id", "name: Door\n"},
		{"sidecar without owner or date", "id: 5f1c7d1e-8c5b-4c55-9a8e-0b6a2d0c6c11\nname: Door\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, v := newTestRepository(t)
			ctx := context.Background()

			if err := os.WriteFile(v.GetRecordPath("door.txt"), []byte("01\n10\n"), 0644); err != nil {
				t.Fatal(err)
			}
			if tt.sidecar != "" {
				if err := os.WriteFile(v.GetRecordPath("door.yaml"), []byte(tt.sidecar), 0644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := repo.Get(ctx, "door")
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got.Record.Owner() != domain.DefaultOwner {
				t.Errorf("Owner() = %q, want %q", got.Record.Owner(), domain.DefaultOwner)
			}
			if got.Header.LastUpdate != domain.DefaultLastUpdate {
				t.Errorf("LastUpdate = %q, want %q", got.Header.LastUpdate, domain.DefaultLastUpdate)
			}
			if got.Header.Rows != 2 || got.Header.Cols != 2 {
				t.Errorf("dimensions = %s", got.Header.GetDimensions())
			}
		})
	}
}

func TestFileRepository_DoctorRepairsIncompleteMetadata(t *testing.T) {
	tests := []struct {
		name    string
		sidecar string
	}{
		{"no sidecar", ""},
		{"sidecar without id", "name: door\nrows: 2\ncols: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, v := newTestRepository(t)
			ctx := context.Background()

			if err := os.WriteFile(v.GetRecordPath("door.txt"), []byte("01\n10\n"), 0644); err != nil {
				t.Fatal(err)
			}
			if tt.sidecar != "" {
				if err := os.WriteFile(v.GetRecordPath("door.yaml"), []byte(tt.sidecar), 0644); err != nil {
					t.Fatal(err)
				}
			}

			doctor := services.NewDoctorService(repo)

			resp, err := doctor.Execute(ctx, services.DoctorRequest{})
			if err != nil {
				t.Fatalf("Execute() failed: %v", err)
			}
			if resp.Checked != 1 {
				t.Fatalf("Checked = %d, want 1", resp.Checked)
			}
			if resp.Healthy() {
				t.Fatalf("Healthy() = true, want the missing id reported")
			}

			resp, err = doctor.Execute(ctx, services.DoctorRequest{Fix: true})
			if err != nil {
				t.Fatalf("Execute(fix) failed: %v", err)
			}
			if !resp.Healthy() {
				t.Fatalf("Issues after fix = %+v", resp.Issues)
			}

			data, err := os.ReadFile(v.GetRecordPath("door.yaml"))
			if err != nil {
				t.Fatalf("sidecar not written: %v", err)
			}
			meta, err := metadata.ExtractStrict(data)
			if err != nil {
				t.Fatalf("repaired sidecar is incomplete: %v\n%s", err, data)
			}
			if meta.ID == uuid.Nil || meta.Rows != 2 || meta.Cols != 2 {
				t.Errorf("repaired metadata = %+v", meta)
			}

			resp, err = doctor.Execute(ctx, services.DoctorRequest{})
			if err != nil {
				t.Fatal(err)
			}
			if !resp.Healthy() || len(resp.Issues) != 0 {
				t.Errorf("Issues on re-check = %+v", resp.Issues)
			}
		})
	}
}

func TestFileRepository_UnreadableMetadataIsListed(t *testing.T) {
	repo, v := newTestRepository(t)
	ctx := context.Background()

	if err := os.WriteFile(v.GetRecordPath("door.txt"), []byte("1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(v.GetRecordPath("door.yaml"), []byte("id: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	headers, err := repo.ListHeaders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(headers) != 1 {
		t.Fatalf("ListHeaders() returned %d headers, want 1", len(headers))
	}

	resp, err := services.NewDoctorService(repo).Execute(ctx, services.DoctorRequest{Fix: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Issues) != 1 || resp.Issues[0].Fixable || resp.Healthy() {
		t.Errorf("Issues = %+v, want one unfixable load failure", resp.Issues)
	}
}

func TestFileRepository_ExistsAndDelete(t *testing.T) {
	repo, v := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, newStoredRecord(t, "Lobby", "1\n")); err != nil {
		t.Fatal(err)
	}

	if !repo.Exists(ctx, "lobby") {
		t.Error("Exists(lobby) = false after save")
	}

	if err := repo.Delete(ctx, "lobby"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if repo.Exists(ctx, "lobby") {
		t.Error("Exists(lobby) = true after delete")
	}
	if _, err := os.Stat(v.GetRecordPath("lobby.yaml")); !os.IsNotExist(err) {
		t.Error("sidecar left behind after delete")
	}

	if err := repo.Delete(ctx, "lobby"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("second Delete() error = %v, want ErrRecordNotFound", err)
	}
	if _, err := repo.Get(ctx, "lobby"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Get() error = %v, want ErrRecordNotFound", err)
	}
}

func TestFileRepository_GetCorruptedGrid(t *testing.T) {
	repo, v := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, newStoredRecord(t, "Lobby", "01\n10\n")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(v.GetRecordPath("lobby.txt"), []byte("01\n1?\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Get(ctx, "lobby"); !errors.Is(err, domain.ErrInvalidCharacter) {
		t.Errorf("Get() error = %v, want ErrInvalidCharacter", err)
	}
}
