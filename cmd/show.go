package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/pkg/ui"
)

var showPretty bool

var showCmd = &cobra.Command{
	Use:   "show [query]",
	Short: "Describe a record",
	Long: `Print the description of a record and its vault metadata.

Without a query an interactive picker is shown.

Examples:
  qrx show door
  qrx show door --pretty`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showPretty, "pretty", "p", false, "Also draw the grid")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	header, err := selectRecord(ctx, args, "Show record")
	if err != nil {
		return handleCancel(err)
	}

	stored, err := recordRepo.Get(ctx, header.Slug)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load record"))
		return err
	}

	h := stored.Header
	fmt.Println(ui.FormatTitle(h.Name))
	fmt.Println()
	fmt.Println(stored.Record.Describe())
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Slug", h.Slug))
	fmt.Println(ui.RenderKeyValue("ID", h.ID.String()))
	fmt.Println(ui.RenderKeyValue("Tolerance", h.GetToleranceString()))
	fmt.Println(ui.RenderKeyValue("Last update", stored.Record.LastUpdate().String()))
	if h.Source != "" {
		fmt.Println(ui.RenderKeyValue("Source", h.Source))
	}
	if !h.ImportedAt.IsZero() {
		fmt.Println(ui.RenderKeyValue("Imported", h.ImportedAt.Local().Format("2006-01-02 15:04")))
	}

	if showPretty {
		fmt.Println()
		fmt.Println(ui.RenderGrid(stored.Record.Grid().Render()))
	}

	return nil
}
