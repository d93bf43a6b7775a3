package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/pkg/ui"
)

var editCmd = &cobra.Command{
	Use:     "edit [query]",
	Aliases: []string{"e"},
	Short:   "Edit a stored grid in your editor (alias: e)",
	Long: `Open the grid file of a record in your editor.
If no query is provided, shows an interactive list to select from.

After the editor exits the grid is validated again and the record's
metadata is updated to the new dimensions.

Examples:
  qrx edit
  qrx edit lobby`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectRecord(ctx, args, "edit")
	if err != nil {
		return handleCancel(err)
	}

	path := appVault.GetRecordPath(header.Filename)
	if err := openInEditor(path); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	stored, err := recordRepo.Get(ctx, header.Slug)
	if err != nil {
		fmt.Println(ui.FormatError("The grid no longer loads: " + describeLoadError(err)))
		fmt.Println(ui.FormatInfo("Run 'qrx edit " + header.Slug + "' again to fix it"))
		return err
	}

	if stored.Header.Rows != header.Rows || stored.Header.Cols != header.Cols {
		if err := recordRepo.Save(ctx, stored); err != nil {
			return fmt.Errorf("failed to update metadata: %w", err)
		}
		slog.Info("grid resized", "slug", header.Slug, "from", header.GetDimensions(), "to", stored.Header.GetDimensions())
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("'%s' is valid (%s)", header.Name, stored.Header.GetDimensions())))
	return nil
}
