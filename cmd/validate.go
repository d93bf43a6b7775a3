package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check grid files without importing them",
	Long: `Parse one or more grid files and report the first problem in each.

Examples:
  qrx validate door.txt
  qrx validate scans/*.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		grid, err := domain.LoadGridFile(path)
		if err != nil {
			failed++
			fmt.Println(ui.FormatError(path + ": " + describeLoadError(err)))
			continue
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s: %dx%d grid", path, grid.Rows(), grid.Cols())))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(args))
	}
	return nil
}

// describeLoadError turns a grid load error into a one-line reason
func describeLoadError(err error) string {
	var charErr *domain.CharacterError
	switch {
	case errors.As(err, &charErr):
		return fmt.Sprintf("unexpected %q at line %d, column %d", charErr.Char, charErr.Line, charErr.Column)
	case errors.Is(err, domain.ErrEmptyGrid):
		return "no rows"
	case errors.Is(err, domain.ErrRaggedGrid):
		return "rows have different lengths"
	default:
		return err.Error()
	}
}
