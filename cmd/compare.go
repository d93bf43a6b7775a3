package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var (
	compareTolerance float64
	compareHTML      string
	compareShowDiff  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <subject> <reference>",
	Short: "Compare two records exactly and within tolerance",
	Long: `Compare a subject record against a reference record.

The mismatch rate counts differing cells over the subject's extent and
divides by the reference's pixel count. The approximate check passes when
the rate is at most the tolerance (the subject's own unless --tolerance
is given).

Examples:
  qrx compare door-scan door
  qrx compare door-scan door --tolerance 0.1 --diff
  qrx compare door-scan door --html diff.html`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().Float64VarP(&compareTolerance, "tolerance", "t", 0, "Override the subject's tolerance")
	compareCmd.Flags().StringVar(&compareHTML, "html", "", "Write an HTML heatmap of the mismatches to this file")
	compareCmd.Flags().BoolVar(&compareShowDiff, "diff", false, "Draw the mismatch map in the terminal")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	subject, err := resolveQuery(ctx, args[0])
	if err != nil {
		return handleCancel(err)
	}
	reference, err := resolveQuery(ctx, args[1])
	if err != nil {
		return handleCancel(err)
	}

	req := services.CompareRequest{Subject: subject.Slug, Reference: reference.Slug}
	if cmd.Flags().Changed("tolerance") {
		req.Tolerance = &compareTolerance
	}

	resp, err := compareService.Execute(ctx, req)
	if err != nil {
		fmt.Println(ui.FormatError("Comparison failed"))
		return err
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%s vs %s", resp.Subject.Header.Name, resp.Reference.Header.Name)))
	fmt.Println()
	fmt.Print(renderComparison(resp))

	if !resp.Comparable {
		fmt.Println()
		fmt.Println(ui.FormatWarning("Reference is smaller than subject; approximate checks always fail"))
	}

	if compareShowDiff && resp.Comparable {
		g := resp.Subject.Record.Grid()
		fmt.Println()
		fmt.Print(ui.RenderDiffMap(g.Rows(), g.Cols(), diffPairs(resp.Diff)))
	}

	if compareHTML != "" {
		if err := writeHeatmap(compareHTML, resp); err != nil {
			fmt.Println(ui.FormatError("Failed to write heatmap"))
			return err
		}
		fmt.Println()
		fmt.Println(ui.FormatSuccess("Heatmap written: " + compareHTML))
	}

	return nil
}

// renderComparison lays the verdicts out as a two-column table
func renderComparison(resp *services.CompareResponse) string {
	sg, rg := resp.Subject.Record.Grid(), resp.Reference.Record.Grid()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Check", Width: 18},
		{Header: "Result"},
	})
	table.AddRow("Subject size", fmt.Sprintf("%dx%d", sg.Rows(), sg.Cols()))
	table.AddRow("Reference size", fmt.Sprintf("%dx%d", rg.Rows(), rg.Cols()))
	table.AddRow("Exact match", ui.FormatVerdict(resp.Exact))
	if resp.Comparable {
		table.AddRow("Mismatched cells", fmt.Sprintf("%d", resp.Mismatches))
		table.AddRow("Mismatch rate", fmt.Sprintf("%.4f", resp.Rate))
	}
	table.AddRow("Tolerance", fmt.Sprintf("%g", resp.Tolerance))
	table.AddRow("Within tolerance", ui.FormatVerdict(resp.Approximate))
	table.AddRow("Same record", ui.FormatVerdict(resp.SameAs))

	return table.Render()
}

func diffPairs(cells []domain.Cell) [][2]int {
	pairs := make([][2]int, len(cells))
	for i, c := range cells {
		pairs[i] = [2]int{c.Row, c.Col}
	}
	return pairs
}

// writeHeatmap renders the comparison through the heatmap adapter
func writeHeatmap(path string, resp *services.CompareResponse) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s vs %s", resp.Subject.Header.Name, resp.Reference.Header.Name)
	if err := heatmapRenderer.Render(f, title, resp.Subject.Record.Grid(), resp.Reference.Record.Grid()); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	slog.Debug("heatmap written", "path", path, "mismatches", resp.Mismatches)
	return nil
}
