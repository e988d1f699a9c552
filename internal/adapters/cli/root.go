package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/devbush/tubescribe/internal/adapters/cli/tui"
	"github.com/devbush/tubescribe/internal/config"
)

var (
	// Global flags
	configFlag        string
	fileFlag          string
	outFlag           string
	idFlag            string
	backendFlag       string
	languageFlag      string
	modelFlag         string
	concurrencyFlag   int
	timeoutFlag       string
	noCacheFlag       bool
	keepWorkspaceFlag bool
	docxFlag          bool
	quietFlag         bool
	logLevelFlag      string
	logFormatFlag     string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tubescribe [urls...]",
		Short: "Transcribe batches of online videos",
		Long: `tubescribe downloads the audio of each video URL, converts it to
16 kHz mono WAV and sends it to a speech-to-text backend. All transcripts
are collected, in input order, into a single combined report.

A failing video never stops the batch: its report entry is replaced by a
[FAILED] marker and the remaining videos are processed.

Provide URLs as arguments and/or via --file, or run without arguments
for an interactive prompt.`,
		Example: `  tubescribe https://youtu.be/AAAAAAAAAAA https://youtu.be/BBBBBBBBBBB
  tubescribe --file urls.txt --concurrency 4
  tubescribe --backend whisper --model base -f urls.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "Config file (default ~/.tubescribe/config.yaml)")
	flags.StringVarP(&fileFlag, "file", "f", "", "File with URLs, one per line (- for stdin)")
	flags.StringVarP(&outFlag, "out", "o", "output", "Base directory for batch workspaces")
	flags.StringVar(&idFlag, "id", "", "Batch id (default: start time in Unix milliseconds)")
	flags.StringVar(&backendFlag, "backend", config.BackendAzure, "Speech backend: azure, whisper")
	flags.StringVarP(&languageFlag, "language", "l", "en-US", "Recognition language")
	flags.StringVar(&modelFlag, "model", "small", "Whisper model: tiny, base, small, medium, large")
	flags.IntVarP(&concurrencyFlag, "concurrency", "c", 1, fmt.Sprintf("Videos processed in parallel (1-%d)", config.MaxConcurrency))
	flags.StringVar(&timeoutFlag, "timeout", "30m", "Per-video time limit (e.g., 10m, 1h)")
	flags.BoolVar(&noCacheFlag, "no-cache", false, "Ignore and do not update cached transcripts")
	flags.BoolVar(&keepWorkspaceFlag, "keep-workspace", true, "Keep downloaded and converted audio")
	flags.BoolVar(&docxFlag, "docx", false, "Also write the combined report as DOCX")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
	flags.StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormatFlag, "log-format", "text", "Log format: text, json")

	// Add subcommands
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewModelCmd())
	rootCmd.AddCommand(NewDepsCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewReportCmd())
	rootCmd.AddCommand(NewDownloadCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	urls, err := CollectInputs(args, fileFlag, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to collect inputs: %w", err)
	}

	if len(urls) == 0 && fileFlag == "" && len(args) == 0 && isTerminal(os.Stdin) {
		return runInteractiveMenu(cmd)
	}

	app, err := GetApp(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	return runBatch(cmd, app, urls, idFlag)
}

func runInteractiveMenu(cmd *cobra.Command) error {
	options := []tui.MenuOption{
		{Label: "Transcribe videos", Hint: "paste a URL list", Value: "transcribe"},
		{Label: "Manage cache", Hint: "show cached transcripts", Value: "cache"},
		{Label: "Check dependencies", Hint: "yt-dlp, ffmpeg, whisper", Value: "deps"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	switch selected {
	case "transcribe":
		return runTranscribeInteractive(cmd)
	case "cache":
		return runCacheStatus(cmd, nil)
	case "deps":
		return runDepsStatus(cmd, nil)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
	}

	return nil
}

func runTranscribeInteractive(cmd *cobra.Command) error {
	urls, err := tui.RunURLInput()
	if err != nil {
		return err
	}
	if urls == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}

	app, err := GetApp(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	choices, err := tui.RunBatchOptions(tui.BatchChoices{
		KeepWorkspace: app.Config.Batch.KeepWorkspace,
		Docx:          app.Config.Batch.Docx,
		NoCache:       noCacheFlag,
	})
	if err != nil {
		return err
	}
	if choices == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}

	app.Config.Batch.KeepWorkspace = choices.KeepWorkspace
	app.Config.Batch.Docx = choices.Docx
	noCacheFlag = choices.NoCache

	return runBatch(cmd, app, urls, idFlag)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	code := ExitCode(err)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitTaskFailures {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return code
}
