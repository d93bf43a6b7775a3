package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var renameCmd = &cobra.Command{
	Use:     "rename <query> <new name>",
	Aliases: []string{"mv"},
	Short:   "Rename a stored record (alias: mv)",
	Long: `Give a record a new name. The slug follows the name; the ID,
owner, date and tolerance are kept. A stale export under the old
slug is removed.

Examples:
  qrx rename door "Main Entrance"
  qrx mv lobby "Lobby Panel (v2)"`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := resolveQuery(ctx, args[0])
	if err != nil {
		return handleCancel(err)
	}

	resp, err := renameService.Execute(ctx, services.RenameRequest{
		Slug:    header.Slug,
		NewName: args[1],
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordExists) {
			fmt.Println(ui.FormatError(fmt.Sprintf("A record named like '%s' already exists", args[1])))
		}
		return err
	}

	if resp.NewSlug != resp.OldSlug {
		oldExport := appVault.GetExportPath(domain.GenerateFilename(resp.OldSlug))
		if err := os.Remove(oldExport); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove old export", "path", oldExport, "error", err)
		}
	}

	slog.Info("record renamed", "from", resp.OldSlug, "to", resp.NewSlug)
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Renamed '%s' → '%s'", header.Name, resp.NewName)))
	fmt.Println(ui.RenderKeyValue("Slug", resp.NewSlug))

	return nil
}
