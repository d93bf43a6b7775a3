package domain

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseGrid(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantRows int
		wantCols int
		wantErr  error
	}{
		{"small", "01\n10", 2, 2, nil},
		{"trailing newline", "01\n10\n", 2, 2, nil},
		{"blank lines skipped", "\n01\n\n10\n\n", 2, 2, nil},
		{"crlf", "011\r\n100\r\n", 2, 3, nil},
		{"bare cr", "01\r10", 2, 2, nil},
		{"mixed line endings", "01\r10\r\n11\n", 3, 2, nil},
		{"single row", "10101", 1, 5, nil},
		{"invalid digit", "01\n12", 0, 0, ErrInvalidCharacter},
		{"letter", "0a\n10", 0, 0, ErrInvalidCharacter},
		{"inner space", "0 1\n101", 0, 0, ErrInvalidCharacter},
		{"empty", "", 0, 0, ErrEmptyGrid},
		{"only blank lines", "\n\n\n", 0, 0, ErrEmptyGrid},
		{"ragged rows", "011\n10", 0, 0, ErrRaggedGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseGrid(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseGrid() error = %v, want %v", err, tt.wantErr)
				}
				if g != nil {
					t.Fatal("ParseGrid() returned a partial grid on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGrid() unexpected error: %v", err)
			}
			if g.Rows() != tt.wantRows || g.Cols() != tt.wantCols {
				t.Errorf("ParseGrid() = %dx%d, want %dx%d", g.Rows(), g.Cols(), tt.wantRows, tt.wantCols)
			}
		})
	}
}

func TestParseGrid_Values(t *testing.T) {
	g, err := ParseGrid("01\n10")
	if err != nil {
		t.Fatalf("ParseGrid failed: %v", err)
	}

	want := [][]uint8{{0, 1}, {1, 0}}
	for r, row := range want {
		for c, v := range row {
			got, err := g.At(r, c)
			if err != nil {
				t.Fatalf("At(%d, %d) failed: %v", r, c, err)
			}
			if got != v {
				t.Errorf("At(%d, %d) = %d, want %d", r, c, got, v)
			}
		}
	}
}

func TestParseGrid_CharacterPosition(t *testing.T) {
	_, err := ParseGrid("0101\n\n01x1\n")

	var ce *CharacterError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a CharacterError", err)
	}
	if ce.Line != 3 || ce.Column != 3 || ce.Char != 'x' {
		t.Errorf("CharacterError = %+v, want line 3 column 3 'x'", ce)
	}
}

func TestLoadGrid(t *testing.T) {
	g, err := LoadGrid(strings.NewReader("111\n000\n101\n"))
	if err != nil {
		t.Fatalf("LoadGrid failed: %v", err)
	}
	if g.PixelCount() != 9 {
		t.Errorf("PixelCount() = %d, want 9", g.PixelCount())
	}
}

func TestLoadGridFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "small_data.txt")
	if err := os.WriteFile(good, []byte("01\n10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "small_data_error.txt")
	if err := os.WriteFile(bad, []byte("01\n20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadGridFile(good)
	if err != nil {
		t.Fatalf("LoadGridFile(good) failed: %v", err)
	}
	if !g.Equals(mustGrid(t, [][]uint8{{0, 1}, {1, 0}})) {
		t.Errorf("LoadGridFile(good) = %q", g.Text())
	}

	if _, err := LoadGridFile(bad); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("LoadGridFile(bad) error = %v, want ErrInvalidCharacter", err)
	}

	if _, err := LoadGridFile(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadGridFile(missing) error = %v, want not exist", err)
	}
}
