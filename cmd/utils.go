package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

// errCancelled is returned when the user backs out of a prompt
var errCancelled = errors.New("operation cancelled")

// GetPreferredEditor returns the editor command from config, env, or default
func GetPreferredEditor() string {
	if appConfig != nil && appConfig.Editor != "" {
		return appConfig.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// openInEditor runs the preferred editor on path attached to the terminal
func openInEditor(path string) error {
	c := exec.Command(GetPreferredEditor(), path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// selectRecord resolves a record header from an optional query.
// No query opens the fuzzy finder over every record; a query that is an exact
// slug wins outright, otherwise search results are picked from a numbered list.
func selectRecord(ctx context.Context, args []string, purpose string) (*domain.RecordHeader, error) {
	if len(args) == 0 {
		resp, err := listService.Execute(ctx, services.ListRequest{SortBy: "name"})
		if err != nil {
			return nil, err
		}
		if resp.Total == 0 {
			return nil, fmt.Errorf("no records in vault: %w", domain.ErrRecordNotFound)
		}
		return pickWithFinder(resp.Records, purpose)
	}

	return resolveQuery(ctx, args[0])
}

// resolveQuery maps a query to one record: exact slug first, then fuzzy search
func resolveQuery(ctx context.Context, query string) (*domain.RecordHeader, error) {
	if recordRepo.Exists(ctx, query) {
		stored, err := recordRepo.Get(ctx, query)
		if err != nil {
			return nil, err
		}
		return &stored.Header, nil
	}

	resp, err := listService.Search(ctx, services.SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}

	switch resp.Total {
	case 0:
		return nil, fmt.Errorf("%q: %w", query, domain.ErrRecordNotFound)
	case 1:
		return &resp.Records[0], nil
	}

	idx, err := promptChoice(os.Stdin, resp.Records)
	if err != nil {
		return nil, err
	}
	return &resp.Records[idx], nil
}

// pickWithFinder shows the interactive finder with a record preview
func pickWithFinder(records []domain.RecordHeader, purpose string) (*domain.RecordHeader, error) {
	idx, err := fuzzyfinder.Find(
		records,
		func(i int) string {
			return records[i].Name
		},
		fuzzyfinder.WithHeader(purpose),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return recordPreview(records[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errCancelled
		}
		return nil, err
	}
	return &records[idx], nil
}

// recordPreview is the short description shown next to pickers
func recordPreview(h domain.RecordHeader) string {
	return fmt.Sprintf("Name: %s\nSlug: %s\nOwner: %s\nLast update: %s\nSize: %s\nTolerance: %s",
		h.Name, h.Slug, h.Owner, h.LastUpdate, h.GetDimensions(), h.GetToleranceString())
}

// promptChoice prints a numbered list and reads a selection until it is valid
func promptChoice(in io.Reader, records []domain.RecordHeader) (int, error) {
	fmt.Println(ui.FormatInfo(fmt.Sprintf("Found %d matches:", len(records))))
	fmt.Println()
	for i, h := range records {
		fmt.Printf("  %d. %s %s\n", i+1, ui.StyleBold.Render(h.Name), ui.StyleMuted.Render("("+h.Slug+")"))
	}
	fmt.Println()

	reader := bufio.NewReader(in)
	for {
		fmt.Print(ui.StyleInfo.Render(fmt.Sprintf("Select a record (1-%d): ", len(records))))

		input, err := reader.ReadString('\n')
		if err != nil && strings.TrimSpace(input) == "" {
			return 0, errCancelled
		}

		n, convErr := strconv.Atoi(strings.TrimSpace(input))
		if convErr != nil || n < 1 || n > len(records) {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("Please enter a number between 1 and %d.", len(records))))
			if err != nil {
				return 0, errCancelled
			}
			continue
		}
		return n - 1, nil
	}
}

// confirm asks a y/n question; anything but "y" is a no
func confirm(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// truncate shortens s to maxLen runes with an ellipsis
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// handleCancel turns a cancelled prompt into a friendly message
func handleCancel(err error) error {
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	return err
}
