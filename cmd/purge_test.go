package cmd

import (
	"strings"
	"testing"
)

func TestPurgeCommand_Exists(t *testing.T) {
	if purgeCmd == nil {
		t.Fatal("purge command should be registered")
	}

	if purgeCmd.Use != "purge" {
		t.Errorf("expected Use to be 'purge', got '%s'", purgeCmd.Use)
	}

	if purgeCmd.Short == "" || purgeCmd.Long == "" {
		t.Error("purge command should have descriptions")
	}

	if purgeCmd.RunE == nil {
		t.Error("purge command should have a RunE function")
	}

	if !vaultOptional["purge"] {
		t.Error("purge should handle a missing vault itself")
	}
}

func TestPurgeCommand_Flags(t *testing.T) {
	forceFlag := purgeCmd.Flags().Lookup("force")
	if forceFlag == nil {
		t.Fatal("expected 'force' flag to exist")
	}

	if forceFlag.Shorthand != "f" {
		t.Errorf("expected force flag shorthand to be 'f', got '%s'", forceFlag.Shorthand)
	}

	if forceFlag.DefValue != "false" {
		t.Errorf("expected force flag default to be 'false', got '%s'", forceFlag.DefValue)
	}
}

func TestConfirmPurge(t *testing.T) {
	const root = "/home/me/.local/share/qrx"

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"both confirmed", "yes\n" + root + "\n", true},
		{"uppercase yes", "YES\n" + root + "\n", true},
		{"no", "no\n", false},
		{"y is not enough", "y\nno\n", false},
		{"retry wrong path", "yes\n/tmp\n" + root + "\n", true},
		{"empty path cancels", "yes\n\n", false},
		{"eof on first prompt", "", false},
		{"eof on second prompt", "yes\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := confirmPurge(strings.NewReader(tt.input), root); got != tt.want {
				t.Errorf("confirmPurge() = %v, want %v", got, tt.want)
			}
		})
	}
}
