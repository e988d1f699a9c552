package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/cli/tui"
)

// NewDownloadCmd creates the download command
func NewDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <url>",
		Short: "Download the audio of one video as MP3 without transcribing",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	progress := tui.NewProgressDisplay(out, []string{"Checking yt-dlp", "Downloading audio"}, quietFlag)

	// Step 1: Check dependencies
	progress.StartStep(0)
	if !app.Downloader.IsAvailable() {
		if err := app.Downloader.Install(ctx, func(d, t int64) {
			progress.UpdateProgress(0, d, t)
		}); err != nil {
			progress.FailStep(0, err.Error())
			return fmt.Errorf("failed to install yt-dlp: %w", err)
		}
	}
	progress.CompleteStep(0)

	// Step 2: Download
	progress.StartStep(1)
	spinnerDone := progress.StartSpinner()
	result, err := app.DownloadSvc.Download(ctx, args[0], app.Config.Defaults.OutputDir)
	close(spinnerDone)
	if err != nil {
		progress.FailStep(1, err.Error())
		return err
	}
	progress.CompleteStep(1)

	if quietFlag {
		fmt.Fprintln(out, result.AudioPath)
		return nil
	}
	progress.Complete("Audio", result.AudioPath)
	return nil
}
