package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var (
	renderOutput  string
	renderStdout  bool
	renderCopy    bool
	renderAll     bool
	renderWorkers int
)

var renderCmd = &cobra.Command{
	Use:     "render [query]",
	Aliases: []string{"export"},
	Short:   "Write the pretty block rendering of a record",
	Long: `Render a record with two full blocks per set pixel and two spaces per
unset pixel, one line per row.

By default the rendering is saved to the vault's exports directory.

Examples:
  qrx render door
  qrx render door --output ~/door.txt
  qrx render door --stdout
  qrx render door --copy
  qrx render --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write to this file instead of the exports directory")
	renderCmd.Flags().BoolVar(&renderStdout, "stdout", false, "Print the rendering instead of saving it")
	renderCmd.Flags().BoolVarP(&renderCopy, "copy", "c", false, "Copy the rendering to the clipboard")
	renderCmd.Flags().BoolVarP(&renderAll, "all", "a", false, "Export every record")
	renderCmd.Flags().IntVarP(&renderWorkers, "jobs", "j", 4, "Concurrent exports with --all")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderAll {
		return runRenderAll()
	}

	ctx := getContext()

	header, err := selectRecord(ctx, args, "Render record")
	if err != nil {
		return handleCancel(err)
	}

	if renderStdout {
		stored, err := recordRepo.Get(ctx, header.Slug)
		if err != nil {
			return err
		}
		if err := stored.Record.Grid().WritePretty(os.Stdout); err != nil {
			return err
		}
		if renderCopy {
			copyRendering(stored.Record.Grid().Render())
		}
		return nil
	}

	resp, err := exportService.Execute(ctx, services.ExportRequest{
		Slug:       header.Slug,
		OutputPath: renderOutput,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to render record"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Rendered: " + resp.OutputPath))

	if renderCopy {
		copyRendering(resp.Lines)
	}

	return nil
}

func runRenderAll() error {
	progress := make(chan services.ExportProgress)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for p := range progress {
			line := fmt.Sprintf("[%d/%d] %s", p.Current, p.Total, p.Slug)
			if p.Success {
				fmt.Println(ui.FormatSuccess(line))
			} else {
				fmt.Println(ui.FormatError(fmt.Sprintf("%s: %v", line, p.Error)))
			}
		}
	}()

	resp, err := exportService.ExecuteAllWithProgress(getContext(), services.ExportAllRequest{MaxWorkers: renderWorkers}, progress)
	<-done
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Exported %d of %d records to %s", resp.Succeeded, resp.Total, appVault.ExportsPath)))
	if resp.Failed > 0 {
		return fmt.Errorf("%d exports failed", resp.Failed)
	}
	return nil
}

// copyRendering puts the lines on the system clipboard; failure only warns
func copyRendering(lines []string) {
	if err := clipboard.WriteAll(strings.Join(lines, "\n") + "\n"); err != nil {
		fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
		return
	}
	fmt.Println(ui.FormatSuccess("Copied to clipboard"))
}
