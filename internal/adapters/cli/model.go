package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/cli/tui"
	"github.com/devbush/tubescribe/internal/config"
	"github.com/devbush/tubescribe/internal/ports"
)

var setDefaultModelFlag bool

// NewModelCmd creates the model subcommand
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage whisper.cpp models (used by --backend whisper)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List whisper models and their local status",
		RunE:  runModelList,
	}

	downloadCmd := &cobra.Command{
		Use:   "download <model>",
		Short: "Download a model into the models directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelDownload,
	}
	downloadCmd.Flags().BoolVar(&setDefaultModelFlag, "set-default", false, "Record the model as the default in the config file")

	removeCmd := &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelRemove,
	}

	cmd.AddCommand(listCmd, downloadCmd, removeCmd)
	return cmd
}

// writeModelTable prints one row per model, flagging the configured one.
func writeModelTable(out io.Writer, models []ports.Model, current string) {
	fmt.Fprintf(out, "\n  %-10s %-10s %-16s %s\n", "Model", "Size", "Status", "Notes")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, m := range models {
		status := "-"
		if m.Downloaded {
			status = "downloaded"
		}
		name := m.Name
		if m.Name == current {
			name += "*"
		}
		fmt.Fprintf(out, "  %-10s %-10s %-16s %s\n", name, tui.FormatSize(m.Size), status, m.Description)
	}
	fmt.Fprintf(out, "\n  * used by --backend whisper (current: %s)\n\n", current)
}

func runModelList(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}
	writeModelTable(cmd.OutOrStdout(), app.Whisper.AvailableModels(), app.Config.Defaults.Model)
	return nil
}

func runModelDownload(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	name := args[0]

	if app.Whisper.IsModelDownloaded(name) {
		fmt.Fprintf(out, "Model %q is already downloaded\n", name)
	} else {
		progress := tui.NewProgressDisplay(out, []string{"Downloading ggml-" + name + ".bin"}, quietFlag)
		progress.StartStep(0)
		err := app.Whisper.DownloadModel(cmd.Context(), name, func(downloaded, total int64) {
			progress.UpdateProgress(0, downloaded, total)
		})
		if err != nil {
			progress.FailStep(0, err.Error())
			return err
		}
		progress.CompleteStep(0)
		progress.Complete("Model", name)
	}

	if setDefaultModelFlag {
		return setDefaultModel(configPath(), name, out)
	}
	return nil
}

// setDefaultModel records name in the config file only, so values coming
// from the environment or flags are not persisted.
func setDefaultModel(path, name string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Defaults.Model = name
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Default model set to %q in %s\n", name, path)
	return nil
}

func runModelRemove(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	name := args[0]

	if !app.Whisper.IsModelDownloaded(name) {
		fmt.Fprintf(out, "Model %q is not downloaded\n", name)
		return nil
	}
	if err := app.Whisper.DeleteModel(name); err != nil {
		return err
	}

	fmt.Fprintf(out, "Model %q removed\n", name)
	if name == app.Config.Defaults.Model && app.Config.Defaults.Backend == config.BackendWhisper {
		fmt.Fprintf(out, "Warning: %q is the configured model; whisper batches fail until it is downloaded again\n", name)
	}
	return nil
}
