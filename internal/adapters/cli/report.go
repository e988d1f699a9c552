package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/cli/tui"
	"github.com/devbush/tubescribe/internal/adapters/report"
)

var fullReportFlag bool

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect combined reports",
	}

	showCmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Summarize a combined report",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportShow,
	}
	showCmd.Flags().BoolVar(&fullReportFlag, "full", false, "Print every transcript in full")

	cmd.AddCommand(showCmd)
	return cmd
}

func runReportShow(cmd *cobra.Command, args []string) error {
	entries, err := report.NewOsWriter().Read(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, e := range entries {
		status := "ok"
		if e.Failed {
			status = "FAILED"
			failed++
		}

		if fullReportFlag {
			fmt.Fprintf(out, "[%d] %s (%s)\n%s\n\n", i+1, e.URL, status, e.Body)
			continue
		}

		preview := e.Body
		if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
			preview = preview[:idx]
		}
		fmt.Fprintf(out, "%3d  %-6s  %-24s  %s\n", i+1, status, tui.TaskLabel(e.URL, 24), tui.Truncate(preview, 60))
	}

	fmt.Fprintf(out, "\n%d entries, %d failed\n", len(entries), failed)
	return nil
}
