package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var (
	listOwnerFilter string
	listSortBy      string
	listReverse     bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List records in the vault",
	Aliases: []string{"ls"},
	Long: `List all records in a table.

Examples:
  qrx list
  qrx list --owner Facilities
  qrx list --sort date --reverse
  qrx ls --sort size`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listOwnerFilter, "owner", "", "Filter records by owner")
	// Sort defaults come from config when the flag is left alone
	listCmd.Flags().StringVar(&listSortBy, "sort", "name", "Sort by field (name, owner, date, size)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
}

func runList(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	resp, err := listService.Execute(getContext(), services.ListRequest{
		OwnerFilter: listOwnerFilter,
		SortBy:      listSortBy,
		Reverse:     listReverse,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list records"))
		return err
	}

	if resp.Total == 0 {
		if listOwnerFilter != "" {
			fmt.Println(ui.FormatWarning("No records found for owner: " + listOwnerFilter))
		} else {
			fmt.Println(ui.FormatWarning("No records found"))
			fmt.Println(ui.FormatInfo("Import your first grid with: qrx import grid.txt"))
		}
		return nil
	}

	if listOwnerFilter != "" {
		fmt.Println(ui.FormatTitle(fmt.Sprintf("Records (owner: %s)", listOwnerFilter)))
	} else {
		fmt.Println(ui.FormatTitle("Records"))
	}
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Name", Width: 30},
		{Header: "Owner", Width: 20},
		{Header: "Updated", Width: 10},
		{Header: "Size", Align: "right"},
		{Header: "Tolerance", Align: "right"},
		{Header: "Slug"},
	})

	for _, h := range resp.Records {
		table.AddRow(
			truncate(h.Name, 30),
			truncate(h.Owner, 20),
			h.LastUpdate,
			h.GetDimensions(),
			h.GetToleranceString(),
			h.Slug,
		)
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d records", resp.Total)))

	return nil
}
