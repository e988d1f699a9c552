package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/cli/tui"
	"github.com/devbush/tubescribe/internal/config"
	"github.com/devbush/tubescribe/internal/ports"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage external tools (yt-dlp, ffmpeg, whisper.cpp)",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency status",
		RunE:  runDepsStatus,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp to latest version",
		RunE:  runDepsUpdate,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install missing tools (yt-dlp; ffmpeg on Windows)",
		RunE:  runDepsInstall,
	}

	cmd.AddCommand(statusCmd, updateCmd, installCmd)
	return cmd
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dependency Status:")
	fmt.Fprintln(out)

	for _, tool := range []ports.ExternalTool{app.Downloader, app.Transcoder} {
		if tool.IsAvailable() {
			fmt.Fprintf(out, "  %-9s installed (%s)\n", tool.Name()+":", tool.GetBinaryPath())
		} else {
			fmt.Fprintf(out, "  %-9s not found\n", tool.Name()+":")
		}
	}
	if version, err := app.Downloader.Version(cmd.Context()); err == nil {
		fmt.Fprintf(out, "  %-9s %s\n", "", version)
	}

	if path := app.Whisper.GetBinaryPath(); path != "" {
		fmt.Fprintf(out, "  %-9s installed (%s)\n", "whisper:", path)
	} else {
		fmt.Fprintf(out, "  %-9s not found\n", "whisper:")
	}

	models := app.Whisper.AvailableModels()
	downloaded := 0
	for _, m := range models {
		if m.Downloaded {
			downloaded++
		}
	}
	fmt.Fprintf(out, "  %-9s %d/%d models downloaded\n", "", downloaded, len(models))

	speech := "no key (set " + config.EnvSpeechKey + ")"
	if app.Config.Speech.RequireKey() == nil {
		speech = "key configured, region " + app.Config.Speech.Region
	}
	fmt.Fprintf(out, "  %-9s %s\n", "azure:", speech)
	fmt.Fprintf(out, "\n  Backend: %s\n\n", app.Config.Defaults.Backend)

	return nil
}

func runDepsUpdate(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}

	if !app.Downloader.IsAvailable() {
		return fmt.Errorf("yt-dlp is not installed. Run 'tubescribe deps install' first")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Updating yt-dlp...")

	output, err := app.Downloader.Update(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func runDepsInstall(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tool := range []ports.ExternalTool{app.Downloader, app.Transcoder} {
		if tool.IsAvailable() {
			fmt.Fprintf(out, "%s is already installed\n", tool.Name())
			continue
		}

		// ffmpeg is only bundled for Windows
		if tool == ports.ExternalTool(app.Transcoder) && runtime.GOOS != "windows" {
			fmt.Fprintf(out, "%s not found. %s\n", tool.Name(), tool.Instructions())
			continue
		}

		progress := tui.NewProgressDisplay(out, []string{"Installing " + tool.Name()}, quietFlag)
		progress.StartStep(0)
		err := tool.Install(cmd.Context(), func(downloaded, total int64) {
			progress.UpdateProgress(0, downloaded, total)
		})
		if err != nil {
			progress.FailStep(0, err.Error())
			return fmt.Errorf("failed to install %s: %w", tool.Name(), err)
		}
		progress.CompleteStep(0)
	}

	return nil
}
