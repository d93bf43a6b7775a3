package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of the vault",
	Long: `Diagnose issues with your QRX setup.

Checks for:
  - Vault directory integrity
  - Configuration file existence
  - Clipboard and editor availability
  - Records that no longer load or whose metadata is stale

Use --fix to rewrite stale metadata from the grid on disk.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair fixable metadata problems")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("QRX Doctor"))
	fmt.Println()

	checkStep("Vault Directory", func() error {
		if _, err := os.Stat(appVault.RootPath); os.IsNotExist(err) {
			return fmt.Errorf("not found at %s", appVault.RootPath)
		}
		return nil
	})

	checkStep("Records Directory", func() error {
		if !appVault.Exists() {
			return fmt.Errorf("missing at %s", appVault.RecordsPath)
		}
		return nil
	})

	checkStep("Exports Directory", func() error {
		if _, err := os.Stat(appVault.ExportsPath); os.IsNotExist(err) {
			return fmt.Errorf("missing (will be created on next render)")
		}
		return nil
	})

	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appVault.ConfigPath)
		}
		return nil
	})

	checkStep("Clipboard", func() error {
		if clipboard.Unsupported {
			return fmt.Errorf("unavailable ('render --copy' will not work)")
		}
		return nil
	})

	checkStep("Editor", func() error {
		if appConfig.Editor == "" && os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback '%s')", GetPreferredEditor())
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking records..."))

	resp, err := doctorService.Execute(getContext(), services.DoctorRequest{Fix: doctorFix})
	if err != nil {
		return err
	}

	checkStep(fmt.Sprintf("Record Integrity (%d checked)", resp.Checked), func() error {
		if len(resp.Issues) == 0 {
			return nil
		}
		for _, issue := range resp.Issues {
			fmt.Println("    " + formatIssue(issue))
		}
		if resp.Healthy() {
			return nil
		}
		return fmt.Errorf("found %d problems", countUnfixed(resp.Issues))
	})

	if !doctorFix && hasFixable(resp.Issues) {
		fmt.Println()
		fmt.Println(ui.FormatInfo("Run 'qrx doctor --fix' to repair stale metadata"))
	}

	return nil
}

// checkStep runs a check function and prints the result
func checkStep(name string, check func() error) {
	if err := check(); err != nil {
		fmt.Println(ui.FormatError(name))
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
		return
	}
	fmt.Println(ui.FormatSuccess(name))
}

func formatIssue(issue services.RecordIssue) string {
	line := fmt.Sprintf("%s: %s", issue.Slug, issue.Problem)
	switch {
	case issue.Fixed:
		return ui.StyleSuccess.Render(line + " (fixed)")
	case issue.Err != nil:
		return ui.StyleError.Render(fmt.Sprintf("%s (%v)", line, issue.Err))
	default:
		return ui.StyleWarning.Render(line)
	}
}

func countUnfixed(issues []services.RecordIssue) int {
	n := 0
	for _, issue := range issues {
		if !issue.Fixed {
			n++
		}
	}
	return n
}

func hasFixable(issues []services.RecordIssue) bool {
	for _, issue := range issues {
		if issue.Fixable && !issue.Fixed {
			return true
		}
	}
	return false
}
