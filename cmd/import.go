package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var (
	importName      string
	importOwner     string
	importDate      string
	importTolerance float64
)

var importCmd = &cobra.Command{
	Use:     "import <file>",
	Aliases: []string{"add"},
	Short:   "Import a 0/1 grid file into the vault",
	Long: `Import a grid file into the vault.

The file must contain only '0' and '1' characters, one row per line.
Blank lines are ignored. Owner, date and tolerance default to the
values in config.yaml.

Examples:
  qrx import door.txt
  qrx import scan.txt --name "Door Scan" --owner Facilities --date 01/09/2024
  qrx add damaged.txt --tolerance 0.05`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "Record name (default: file name)")
	importCmd.Flags().StringVarP(&importOwner, "owner", "o", "", "Owner of the grid")
	importCmd.Flags().StringVarP(&importDate, "date", "d", "", "Last update date (DD/MM/YYYY)")
	importCmd.Flags().Float64VarP(&importTolerance, "tolerance", "t", 0, "Damage tolerance as a fraction (0.05 = 5%)")
}

func runImport(cmd *cobra.Command, args []string) error {
	req := services.ImportRequest{
		SourcePath: args[0],
		Name:       importName,
		Owner:      importOwner,
		LastUpdate: importDate,
		Tolerance:  importTolerance,
	}

	if !cmd.Flags().Changed("owner") {
		req.Owner = appConfig.DefaultOwner
	}
	if !cmd.Flags().Changed("date") {
		req.LastUpdate = appConfig.DefaultLastUpdate
	}
	if !cmd.Flags().Changed("tolerance") {
		req.Tolerance = appConfig.DefaultTolerance
	}

	resp, err := importService.Execute(getContext(), req)
	if err != nil {
		var charErr *domain.CharacterError
		switch {
		case errors.As(err, &charErr):
			fmt.Println(ui.FormatError(fmt.Sprintf("Invalid grid: unexpected %q at line %d, column %d",
				charErr.Char, charErr.Line, charErr.Column)))
		case errors.Is(err, domain.ErrRecordExists):
			fmt.Println(ui.FormatError("A record with that name already exists"))
			fmt.Println(ui.FormatInfo("Pick another name with --name"))
		default:
			fmt.Println(ui.FormatError("Failed to import grid"))
		}
		return err
	}

	h := resp.Stored.Header
	slog.Info("record imported", "slug", h.Slug, "source", h.Source, "id", h.ID)

	fmt.Println(ui.FormatSuccess("Imported: " + h.Name))
	fmt.Println(ui.RenderKeyValue("Slug", h.Slug))
	fmt.Println(ui.RenderKeyValue("Size", h.GetDimensions()))
	fmt.Println(ui.RenderKeyValue("Owner", h.Owner))
	fmt.Println(ui.RenderKeyValue("Tolerance", h.GetToleranceString()))

	return nil
}
