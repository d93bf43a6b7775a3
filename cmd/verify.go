package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <subject> <reference>",
	Short: "Check a record against a reference with its own tolerance",
	Long: `Run the corruption check of a subject record against a reference.

The check passes when the subject's mismatch rate against the reference is
within the subject's stored tolerance. The result is printed as
"within tolerance: yes/no" and is the same value the record API reports
for IsCorrupted.

Examples:
  qrx verify door-scan door`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	subject, err := resolveQuery(ctx, args[0])
	if err != nil {
		return handleCancel(err)
	}
	reference, err := resolveQuery(ctx, args[1])
	if err != nil {
		return handleCancel(err)
	}

	resp, err := compareService.Execute(ctx, services.CompareRequest{
		Subject:   subject.Slug,
		Reference: reference.Slug,
	})
	if err != nil {
		return err
	}

	fmt.Println(ui.RenderKeyValue("Subject", resp.Subject.Header.Name))
	fmt.Println(ui.RenderKeyValue("Reference", resp.Reference.Header.Name))
	fmt.Println(ui.RenderKeyValue("Tolerance", resp.Subject.Header.GetToleranceString()))
	fmt.Println(ui.RenderKeyValue("Within tolerance", ui.FormatVerdict(resp.Corrupted)))

	return nil
}
