package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/pkg/config"
	"github.com/kamal-hamza/qrx/pkg/ui"
	"github.com/kamal-hamza/qrx/pkg/vault"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the qrx vault",
	Long: `Initialize the qrx vault directory structure.

This creates the managed vault (default ~/.local/share/qrx/) with:
  - records/    : Imported grid files and their .yaml metadata
  - exports/    : Pretty renderings written by 'qrx render'
and a default config.yaml (default ~/.config/qrx/).`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	v := appVault
	if v == nil {
		var err error
		if v, err = vault.New(); err != nil {
			fmt.Println(ui.FormatError("Failed to determine vault location"))
			return err
		}
	}

	if v.Exists() {
		fmt.Println(ui.FormatWarning("Vault already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + v.RootPath))
		return nil
	}

	fmt.Println(ui.FormatInfo("Initializing qrx vault..."))
	fmt.Println()

	if err := v.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize vault"))
		return err
	}

	if err := createDefaultConfig(v); err != nil {
		// Config is optional; defaults apply without it
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
	}

	fmt.Println(ui.FormatSuccess("Vault initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", v.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", v.ConfigPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Import a grid: qrx import door.txt --owner \"Facilities\""))
	fmt.Println(ui.FormatMuted("  2. List records:  qrx list"))
	fmt.Println(ui.FormatMuted("  3. Compare two:   qrx compare door door-scan"))

	return nil
}

// createDefaultConfig writes the default config unless one already exists
func createDefaultConfig(v *vault.Vault) error {
	if _, err := os.Stat(v.ConfigPath); err == nil {
		return nil
	}
	return config.DefaultConfig().Save(v.ConfigPath)
}
