package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/pkg/config"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var configEdit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the qrx configuration",
	Long: `Print the config file location and the effective settings.

Use --edit to open the file in your editor (config 'editor', then $EDITOR).`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVarP(&configEdit, "edit", "e", false, "Open the config file in your editor")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := appVault.ConfigPath

	if configEdit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
		}
		fmt.Println(ui.FormatInfo("Opening config: " + path))
		return openInEditor(path)
	}

	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("File", path))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(ui.FormatMuted("  (not found, defaults in use)"))
	}
	fmt.Println()

	c := appConfig
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Key", Width: 20},
		{Header: "Value"},
	})
	table.AddRow("default_owner", c.DefaultOwner)
	table.AddRow("default_tolerance", fmt.Sprintf("%g", c.DefaultTolerance))
	table.AddRow("default_last_update", c.DefaultLastUpdate)
	table.AddRow("default_sort", c.DefaultSort)
	table.AddRow("reverse_sort", fmt.Sprintf("%t", c.ReverseSort))
	table.AddRow("color_theme", c.ColorTheme)
	table.AddRow("editor", GetPreferredEditor())
	table.AddRow("log_level", c.LogLevel)
	table.AddRow("log_format", c.LogFormat)
	table.AddRow("watch_debounce_ms", fmt.Sprintf("%d", c.WatchDebounceMS))
	fmt.Print(table.Render())

	return nil
}
