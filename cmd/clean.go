package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [query]",
	Short: "Remove exported renderings",
	Long: `Remove files written by 'qrx render'.

If no argument is provided, the whole exports directory is emptied.
If a query is provided, only that record's default export is removed.

Examples:
  qrx clean           # Wipe every export
  qrx clean lobby     # Remove the export of 'lobby' only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Print(ui.StyleWarning.Render("Cleaning exports... "))

		removed, err := appVault.CleanExports()
		if err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}

		fmt.Println(ui.FormatSuccess("Done"))
		fmt.Println(ui.FormatMuted(fmt.Sprintf("%d files removed.", removed)))
		return nil
	}

	header, err := resolveQuery(getContext(), args[0])
	if err != nil {
		return handleCancel(err)
	}

	path := appVault.GetExportPath(domain.GenerateFilename(header.Slug))
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println(ui.FormatInfo(fmt.Sprintf("'%s' has no export", header.Name)))
			return nil
		}
		return err
	}

	fmt.Println(ui.FormatSuccess("Removed " + path))
	return nil
}
