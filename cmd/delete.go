package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/pkg/ui"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete [query]",
	Aliases: []string{"rm"},
	Short:   "Delete a record from the vault",
	Long: `Delete a record's grid and metadata from the vault.

Exports already written are left alone.

Examples:
  qrx delete door
  qrx rm door-scan --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectRecord(ctx, args, "Delete record")
	if err != nil {
		return handleCancel(err)
	}

	if !deleteForce {
		fmt.Println(ui.FormatWarning("You are about to delete:"))
		fmt.Printf("  %s %s\n", ui.StyleBold.Render(header.Name), ui.StyleMuted.Render("("+header.Slug+")"))
		fmt.Println()

		if !confirm(os.Stdin, ui.StyleError.Render("Delete record? (y/n): ")) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := recordRepo.Delete(ctx, header.Slug); err != nil {
		fmt.Println(ui.FormatError("Failed to delete record"))
		return err
	}

	slog.Info("record deleted", "slug", header.Slug, "id", header.ID)
	fmt.Println(ui.FormatSuccess("Record deleted."))
	return nil
}
