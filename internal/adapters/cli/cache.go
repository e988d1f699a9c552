package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/cli/tui"
)

var clearAllFlag bool

// NewCacheCmd creates the cache subcommand
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached transcripts",
		Args:  cobra.NoArgs,
		RunE:  runCacheStatus,
	}

	clearCmd := &cobra.Command{
		Use:   "clear [urls...]",
		Short: "Clear cache entries",
		Long: `Without arguments, remove expired entries. With URLs, remove the
cached transcripts of those URLs. With --all, remove everything.`,
		RunE: runCacheClear,
	}
	clearCmd.Flags().BoolVar(&clearAllFlag, "all", false, "Clear all cache entries")

	showCmd := &cobra.Command{
		Use:   "show <url>",
		Short: "Print the cached transcript of a URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runCacheShow,
	}

	cmd.AddCommand(clearCmd, showCmd)

	return cmd
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}

	stats, err := app.CacheSvc.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cache Statistics:")
	fmt.Fprintf(out, "  Items: %d\n", stats.Entries)
	fmt.Fprintf(out, "  Size:  %s\n", tui.FormatSize(stats.Bytes))
	fmt.Fprintf(out, "  TTL:   %s\n", app.Config.Defaults.CacheTTL)
	fmt.Fprintln(out)

	return nil
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}

	item, err := app.CacheSvc.Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if item == nil {
		fmt.Fprintf(out, "No cached transcript for %s\n", args[0])
		return nil
	}

	lang := item.Language
	if lang == "" {
		lang = "auto"
	}
	fmt.Fprintf(out, "URL:      %s\n", item.URL)
	fmt.Fprintf(out, "Backend:  %s (%s)\n", item.Backend, lang)
	fmt.Fprintf(out, "Cached:   %s\n", item.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Expires:  %s\n\n", item.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintln(out, item.Transcript)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case clearAllFlag:
		if err := app.CacheSvc.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "All cache entries cleared")
	case len(args) > 0:
		removed, err := app.CacheSvc.Forget(ctx, args)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d entries\n", removed)
	default:
		cleaned, err := app.CacheSvc.CleanExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d expired entries\n", cleaned)
	}

	return nil
}
