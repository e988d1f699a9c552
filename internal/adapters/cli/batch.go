package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/cli/tui"
	"github.com/devbush/tubescribe/internal/domain"
)

// runBatch transcribes urls as one batch and prints the outcome. Task
// failures produce ExitTaskFailures once the report is written.
func runBatch(cmd *cobra.Command, app *App, urls []string, batchID string) error {
	if len(urls) == 0 {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("%w: provide URLs as arguments or with --file", domain.ErrEmptyBatch)}
	}

	opts, err := app.BatchOptions(batchID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	progress := tui.NewBatchProgress(out, len(urls), quietFlag, out == os.Stdout && isTerminal(os.Stdout))

	svc, err := app.BatchService(progress)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}

	result, err := svc.Run(cmd.Context(), urls, opts)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}

	progress.Complete(result.ReportPath)
	if !quietFlag {
		for _, path := range result.Extra {
			fmt.Fprintf(out, "Also written: %s\n", path)
		}
	}

	if result.WriteErr != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to write report: %w", result.WriteErr)}
	}
	if result.HasFailures() {
		return &ExitError{
			Code: ExitTaskFailures,
			Err:  fmt.Errorf("%d of %d videos failed", result.Job.Failed(), len(result.Job.Tasks)),
		}
	}
	return nil
}
