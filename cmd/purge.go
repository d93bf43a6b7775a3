package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/pkg/ui"
)

var (
	purgeForce bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the entire vault and all its contents",
	Long: `Delete the entire vault directory and all its contents.

This is a destructive operation that will permanently delete:
  - All stored grids and their metadata
  - All exported renderings
  - The configuration file

This action cannot be undone. Use with extreme caution.

Examples:
  # Purge the vault with confirmation prompt
  qrx purge

  # Force purge without confirmation (dangerous!)
  qrx purge --force`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "Skip confirmation prompt (dangerous)")
}

func runPurge(cmd *cobra.Command, args []string) error {
	if !appVault.Exists() {
		fmt.Println(ui.FormatWarning("Vault does not exist."))
		fmt.Println(ui.FormatInfo("Vault location: " + appVault.RootPath))
		return nil
	}

	fmt.Println(ui.StyleError.Render(ui.IconWarning + "  WARNING: DESTRUCTIVE OPERATION"))
	fmt.Println()
	fmt.Println(ui.FormatWarning("You are about to permanently delete the entire vault:"))
	fmt.Printf("  %s %s\n", ui.StyleBold.Render("Location:"), appVault.RootPath)
	fmt.Printf("  %s %s\n", ui.StyleBold.Render("Config:"), appVault.ConfigPath)
	fmt.Println()

	if !purgeForce && !confirmPurge(os.Stdin, appVault.RootPath) {
		fmt.Println(ui.FormatInfo("Purge cancelled."))
		return nil
	}

	fmt.Println()
	fmt.Println(ui.FormatInfo("Purging vault..."))

	if err := appVault.Purge(); err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		return err
	}

	fmt.Println(ui.FormatSuccess("Vault purged"))
	fmt.Println(ui.FormatInfo("To create a new vault, run: qrx init"))

	return nil
}

// confirmPurge asks for a full "yes" and then the vault path typed back.
// EOF or an empty path cancels.
func confirmPurge(in io.Reader, rootPath string) bool {
	reader := bufio.NewReader(in)

	for {
		fmt.Print(ui.StyleError.Render("Are you absolutely sure you want to delete the vault? (yes/no): "))
		response, err := reader.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))

		if response == "yes" {
			break
		}
		if response == "no" || err != nil {
			return false
		}
		fmt.Println(ui.FormatWarning("Please type 'yes' or 'no' (full words required)."))
	}

	fmt.Println()
	for {
		fmt.Printf("%s %s\n", ui.StyleError.Render("To confirm, type the vault path:"), ui.StyleBold.Render(rootPath))
		fmt.Print(ui.StyleError.Render("> "))

		response, err := reader.ReadString('\n')
		response = strings.TrimSpace(response)

		if response == rootPath {
			return true
		}
		if response == "" || err != nil {
			return false
		}
		fmt.Println(ui.FormatWarning("Path does not match. Please try again or press Enter to cancel."))
	}
}
