package domain

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeGridFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestNewRecord_Defaults(t *testing.T) {
	r, err := NewRecord(mustGrid(t, [][]uint8{{0, 1}, {1, 0}}))
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}

	if r.Owner() != DefaultOwner {
		t.Errorf("Owner() = %q, want %q", r.Owner(), DefaultOwner)
	}
	if r.LastUpdate() != (Date{Day: "00", Month: "00", Year: "0000"}) {
		t.Errorf("LastUpdate() = %+v", r.LastUpdate())
	}
	if r.Tolerance() != 0.0 {
		t.Errorf("Tolerance() = %v, want 0", r.Tolerance())
	}
}

func TestNewRecord_Options(t *testing.T) {
	r, err := NewRecord(
		mustGrid(t, [][]uint8{{1}}),
		WithLastUpdate("01/09/2024"),
		WithOwner("Vivian"),
		WithTolerance(0.1),
	)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}

	d := r.LastUpdate()
	if d.Day != "01" || d.Month != "09" || d.Year != "2024" {
		t.Errorf("LastUpdate() = %+v", d)
	}
	if r.Owner() != "Vivian" {
		t.Errorf("Owner() = %q", r.Owner())
	}
	if r.Tolerance() != 0.1 {
		t.Errorf("Tolerance() = %v", r.Tolerance())
	}
}

func TestNewRecord_Failures(t *testing.T) {
	g := mustGrid(t, [][]uint8{{1}})

	tests := []struct {
		name    string
		grid    *Grid
		opts    []RecordOption
		wantErr error
	}{
		{"malformed date", g, []RecordOption{WithLastUpdate("0/0/2024")}, ErrMalformedDate},
		{"negative tolerance", g, []RecordOption{WithTolerance(-0.1)}, ErrInvalidTolerance},
		{"nan tolerance", g, []RecordOption{WithTolerance(math.NaN())}, ErrInvalidTolerance},
		{"nil grid", nil, nil, ErrEmptyGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord(tt.grid, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewRecord() error = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("NewRecord() returned a record on error")
			}
		})
	}
}

func TestLoadRecord(t *testing.T) {
	dir := t.TempDir()
	good := writeGridFile(t, dir, "qrcode_binary.txt", "0110\n1001\n1001\n")
	bad := writeGridFile(t, dir, "qrcode_broken.txt", "0110\n10#1\n")

	r, err := LoadRecord(good, WithOwner("Lacy"))
	if err != nil {
		t.Fatalf("LoadRecord failed: %v", err)
	}
	if r.Grid().Rows() != 3 || r.Grid().Cols() != 4 {
		t.Errorf("grid = %dx%d, want 3x4", r.Grid().Rows(), r.Grid().Cols())
	}
	if r.LastUpdate().Year != "0000" {
		t.Errorf("Year = %q, want 0000", r.LastUpdate().Year)
	}

	if _, err := LoadRecord(bad); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("LoadRecord(bad) error = %v, want ErrInvalidCharacter", err)
	}
	if _, err := LoadRecord(good, WithLastUpdate("2024/01/01")); !errors.Is(err, ErrMalformedDate) {
		t.Errorf("LoadRecord(bad date) error = %v, want ErrMalformedDate", err)
	}
}

func TestRecord_Describe(t *testing.T) {
	cells := make([][]uint8, 33)
	for i := range cells {
		cells[i] = make([]uint8, 33)
	}
	r, err := NewRecord(mustGrid(t, cells), WithLastUpdate("01/09/2024"), WithOwner("Vivian"), WithTolerance(0.1))
	if err != nil {
		t.Fatal(err)
	}

	want := "The QR code was created by Vivian and last updated in 2024.\n" +
		"The details regarding the QR code file are as follows:\n" +
		"This TxtData object has 33 rows and 33 columns."
	if got := r.Describe(); got != want {
		t.Errorf("Describe() =\n%s\nwant\n%s", got, want)
	}
}

func TestRecord_SameAs(t *testing.T) {
	g := mustGrid(t, [][]uint8{{0, 1}, {1, 0}})
	gCopy := mustGrid(t, [][]uint8{{0, 1}, {1, 0}})
	other := mustGrid(t, [][]uint8{{1, 1}, {1, 0}})

	newRecord := func(grid *Grid, opts ...RecordOption) *Record {
		r, err := NewRecord(grid, opts...)
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	tests := []struct {
		name string
		a, b *Record
		want bool
	}{
		{
			name: "same grid and tolerance, different metadata",
			a:    newRecord(g, WithLastUpdate("01/09/2024"), WithOwner("Vivian"), WithTolerance(0.1)),
			b:    newRecord(gCopy, WithLastUpdate("01/09/2022"), WithOwner("Xuanpu"), WithTolerance(0.1)),
			want: true,
		},
		{
			name: "different tolerance",
			a:    newRecord(g, WithOwner("Vivian")),
			b:    newRecord(gCopy, WithTolerance(0.1)),
			want: false,
		},
		{
			name: "different grid",
			a:    newRecord(g),
			b:    newRecord(other),
			want: false,
		},
		{
			name: "nil",
			a:    newRecord(g),
			b:    nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameAs(tt.b); got != tt.want {
				t.Errorf("SameAs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord_IsCorrupted(t *testing.T) {
	precise := mustGrid(t, [][]uint8{
		{1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1},
		{1, 0, 1, 0, 1},
		{1, 0, 0, 0, 1},
	})
	damaged := mustGrid(t, [][]uint8{
		{1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1},
		{1, 0, 0, 0, 1},
		{1, 0, 0, 0, 1},
	})

	reference, err := NewRecord(precise, WithTolerance(0.1))
	if err != nil {
		t.Fatal(err)
	}

	// one of twenty pixels differs: 0.05
	tests := []struct {
		name      string
		tolerance float64
		want      bool
	}{
		{"within tolerance", 0.1, true},
		{"at tolerance", 0.05, true},
		{"beyond tolerance", 0.04, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := NewRecord(damaged, WithTolerance(tt.tolerance))
			if err != nil {
				t.Fatal(err)
			}
			if got := subject.IsCorrupted(reference); got != tt.want {
				t.Errorf("IsCorrupted() = %v, want %v", got, tt.want)
			}
		})
	}
}
