package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/pkg/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vault statistics",
	Long: `Analyze the vault and display statistics.

Includes:
  - Record and cell counts
  - Fill ratio and mean tolerance
  - Records per owner
  - Records per last-update year`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	resp, err := statsService.Execute(getContext())
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle("Vault Statistics"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Records:"), resp.Records)
	if resp.Unreadable > 0 {
		fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Unreadable:"), ui.StyleError.Render(fmt.Sprintf("%d (run 'qrx doctor')", resp.Unreadable)))
	}
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Cells:"), resp.TotalCells)
	fmt.Fprintf(w, "%s\t%.1f%%\n", ui.StyleBold.Render("Fill Ratio:"), resp.FillRatio()*100)
	fmt.Fprintf(w, "%s\t%.2f%%\n", ui.StyleBold.Render("Mean Tolerance:"), resp.MeanTolerance*100)
	if resp.Largest != nil {
		fmt.Fprintf(w, "%s\t%s (%s)\n", ui.StyleBold.Render("Largest:"), resp.Largest.Name, resp.Largest.GetDimensions())
	}
	if resp.Latest != nil {
		fmt.Fprintf(w, "%s\t%s (%s)\n", ui.StyleBold.Render("Latest Update:"), resp.Latest.Name, resp.Latest.LastUpdate)
	}
	w.Flush()
	fmt.Println()

	if len(resp.Owners) > 0 {
		fmt.Println(ui.StyleHeader.Render("Top Owners"))
		bars := make([]barItem, 0, len(resp.Owners))
		for _, o := range resp.Owners {
			bars = append(bars, barItem{Label: o.Owner, Count: o.Count})
		}
		fmt.Print(renderBars(bars, 5, 20))
		fmt.Println()
	}

	if len(resp.Years) > 0 {
		fmt.Println(ui.StyleHeader.Render("Last Updated"))
		bars := make([]barItem, 0, len(resp.Years))
		for _, y := range resp.Years {
			bars = append(bars, barItem{Label: y.Year, Count: y.Count})
		}
		fmt.Print(renderBars(bars, 0, 20))
	}

	return nil
}

type barItem struct {
	Label string
	Count int
}

// renderBars draws a horizontal bar chart scaled to the largest count.
// limit <= 0 shows every item.
func renderBars(items []barItem, limit, width int) string {
	if len(items) == 0 {
		return ""
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	maxCount := 0
	for _, it := range items {
		maxCount = max(maxCount, it.Count)
	}
	if maxCount == 0 {
		maxCount = 1
	}

	var b strings.Builder
	for _, it := range items {
		length := int(math.Ceil(float64(it.Count) / float64(maxCount) * float64(width)))
		fmt.Fprintf(&b, "%s %s %s\n",
			ui.StyleAccent.Render(padRight(strings.Repeat("█", length), width)),
			padRight(truncate(it.Label, 20), 20),
			ui.StyleMuted.Render(fmt.Sprintf("%d", it.Count)),
		)
	}
	return b.String()
}
