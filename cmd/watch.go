package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var watchTolerance float64

var watchCmd = &cobra.Command{
	Use:   "watch <file> <reference>",
	Short: "Re-check a grid file against a record whenever it changes",
	Long: `Watch a grid file on disk and compare it against a stored reference
record every time it is written.

Rapid successive writes are collapsed (config 'watch_debounce_ms').
Press Ctrl+C to stop.

Examples:
  qrx watch ./scan.txt door
  qrx watch ./scan.txt door --tolerance 0.05`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Float64VarP(&watchTolerance, "tolerance", "t", 0, "Tolerance for the watched file (default: config default_tolerance)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	header, err := resolveQuery(ctx, args[1])
	if err != nil {
		return handleCancel(err)
	}
	reference, err := recordRepo.Get(ctx, header.Slug)
	if err != nil {
		return err
	}

	tolerance := appConfig.DefaultTolerance
	if cmd.Flags().Changed("tolerance") {
		tolerance = watchTolerance
	}
	if err := domain.ValidateTolerance(tolerance); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files on save, so watch the directory
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("%s Watching %s against %s", ui.IconWatch, target, reference.Header.Name)))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	check := func() {
		resp, err := checkFile(target, reference.Record, tolerance)
		fmt.Println(formatWatchResult(time.Now(), resp, err))
	}
	check()

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTargetEvent(event, target) {
				continue
			}

			slog.Debug("watch event", "op", event.Op.String(), "file", event.Name)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			check()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			fmt.Println()
			fmt.Println(ui.FormatMuted("Watch stopped"))
			return nil
		}
	}
}

// isTargetEvent reports whether event changes the watched file's content
func isTargetEvent(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// checkFile loads the grid at path and compares it against reference
func checkFile(path string, reference *domain.Record, tolerance float64) (*services.CompareResponse, error) {
	subject, err := domain.LoadRecord(path, domain.WithTolerance(tolerance))
	if err != nil {
		return nil, err
	}
	return services.CompareRecords(subject, reference, nil)
}

// formatWatchResult renders one timestamped status line
func formatWatchResult(at time.Time, resp *services.CompareResponse, err error) string {
	stamp := ui.FormatMuted(at.Format("15:04:05"))

	switch {
	case errors.Is(err, os.ErrNotExist):
		return stamp + " " + ui.FormatWarning("file missing, waiting for it to reappear")
	case err != nil:
		return stamp + " " + ui.FormatError(describeLoadError(err))
	case resp.Exact:
		return stamp + " " + ui.FormatSuccess("exact match")
	case !resp.Comparable:
		return stamp + " " + ui.FormatError("grid is larger than the reference")
	case resp.Approximate:
		return stamp + " " + ui.FormatSuccess(fmt.Sprintf("within tolerance: %d cells differ (rate %.4f <= %g)",
			resp.Mismatches, resp.Rate, resp.Tolerance))
	default:
		return stamp + " " + ui.FormatError(fmt.Sprintf("beyond tolerance: %d cells differ (rate %.4f > %g)",
			resp.Mismatches, resp.Rate, resp.Tolerance))
	}
}
