package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/watcher"
)

var processedDirFlag string

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Run a batch for every URL list dropped into a directory",
		Long: `Watch a directory and run one batch for each new .txt file in it.
Each file holds one URL per line. Processed files are moved to the
processed directory so they are not picked up twice.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&processedDirFlag, "processed-dir", "", "Where handled lists are moved (default <dir>/processed)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	// Fail fast on a missing speech key rather than on the first list
	if _, err := app.Recognizer(); err != nil {
		return err
	}

	dir := args[0]
	processed := processedDirFlag
	if processed == "" {
		processed = filepath.Join(dir, "processed")
	}

	w, err := watcher.New(dir, func(ctx context.Context, path string) error {
		return processURLList(cmd, app, path, processed)
	}, app.Log)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for URL lists (ctrl+c to stop)\n", dir)

	if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// processURLList runs one batch for a dropped list file. Task failures
// are logged; only fatal errors are returned.
func processURLList(cmd *cobra.Command, app *App, path, processedDir string) error {
	ctx := cmd.Context()

	urls, err := ParseInputFile(path)
	if err != nil {
		return err
	}

	moved, err := moveFile(path, processedDir)
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", path, err)
	}

	if len(urls) == 0 {
		app.Log.Warn(ctx, "url list is empty", "path", moved)
		return nil
	}

	err = runBatch(cmd, app, urls, batchIDFor(path, time.Now()))
	if ExitCode(err) == ExitTaskFailures {
		app.Log.Warn(ctx, "batch finished with failures", "path", moved, "error", err)
		return nil
	}
	return err
}
