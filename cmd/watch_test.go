package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kamal-hamza/qrx/internal/core/domain"
)

func TestIsTargetEvent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "scan.txt")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: target, Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: target, Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: target + ".swp", Op: fsnotify.Write}, false},
		{"unclean path", fsnotify.Event{Name: filepath.Dir(target) + "/./scan.txt", Op: fsnotify.Write}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTargetEvent(tt.event, target); got != tt.want {
				t.Errorf("isTargetEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	g, err := domain.ParseGrid("0110\n1001\n")
	if err != nil {
		t.Fatal(err)
	}
	reference, err := domain.NewRecord(g)
	if err != nil {
		t.Fatal(err)
	}

	write := func(name, text string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("exact", func(t *testing.T) {
		resp, err := checkFile(write("exact.txt", "0110\n1001\n"), reference, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !resp.Exact || !resp.Approximate {
			t.Errorf("exact=%v approximate=%v", resp.Exact, resp.Approximate)
		}
	})

	t.Run("within tolerance", func(t *testing.T) {
		resp, err := checkFile(write("close.txt", "0110\n1000\n"), reference, 0.2)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Exact || !resp.Approximate || resp.Mismatches != 1 {
			t.Errorf("exact=%v approximate=%v mismatches=%d", resp.Exact, resp.Approximate, resp.Mismatches)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		if _, err := checkFile(write("bad.txt", "01x\n"), reference, 0); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := checkFile(filepath.Join(dir, "gone.txt"), reference, 0)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want not-exist", err)
		}
	})
}

func TestFormatWatchResult(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	g, _ := domain.ParseGrid("01\n10\n")
	ref, _ := domain.NewRecord(g)
	dir := t.TempDir()

	write := func(text string) string {
		path := filepath.Join(dir, "scan.txt")
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		text string
		tol  float64
		want string
	}{
		{"exact", "01\n10\n", 0, "exact match"},
		{"within", "01\n11\n", 0.25, "within tolerance"},
		{"beyond", "01\n11\n", 0.1, "beyond tolerance"},
		{"larger", "011\n100\n", 0, "larger than the reference"},
		{"invalid", "0a\n", 0, "unexpected 'a'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := checkFile(write(tt.text), ref, tt.tol)
			got := formatWatchResult(at, resp, err)
			if !strings.Contains(got, "15:04:05") {
				t.Errorf("missing timestamp: %q", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("formatWatchResult() = %q, want it to contain %q", got, tt.want)
			}
		})
	}

	_, err := checkFile(filepath.Join(dir, "missing.txt"), ref, 0)
	if got := formatWatchResult(at, nil, err); !strings.Contains(got, "file missing") {
		t.Errorf("missing file result = %q", got)
	}
}
