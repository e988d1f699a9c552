package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/devbush/tubescribe/internal/adapters/azure"
	"github.com/devbush/tubescribe/internal/adapters/cache"
	"github.com/devbush/tubescribe/internal/adapters/ffmpeg"
	"github.com/devbush/tubescribe/internal/adapters/report"
	"github.com/devbush/tubescribe/internal/adapters/whisper"
	"github.com/devbush/tubescribe/internal/adapters/workspace"
	"github.com/devbush/tubescribe/internal/adapters/ytdlp"
	"github.com/devbush/tubescribe/internal/application"
	"github.com/devbush/tubescribe/internal/config"
	"github.com/devbush/tubescribe/internal/logger"
	"github.com/devbush/tubescribe/internal/ports"
	"github.com/devbush/tubescribe/pkg/executor"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Log    logger.Logger

	Downloader *ytdlp.Downloader
	Transcoder *ffmpeg.Transcoder
	Whisper    *whisper.Transcriber
	Cache      *cache.FileCache
	Reports    *report.Writer

	CacheSvc    *application.CacheService
	DownloadSvc *application.DownloadService
}

// NewApp wires the adapters and services for a validated config
func NewApp(cfg *config.Config, log logger.Logger) *App {
	if log == nil {
		log = logger.NewNop()
	}
	runner := executor.New()

	cacheStore := cache.NewOsFileCache(config.CacheDir())
	downloader := ytdlp.NewDownloader(runner, cfg.Paths.YtDlp)
	transcoder := ffmpeg.NewTranscoder(runner, cfg.Paths.FFmpeg)
	whisperTr := whisper.NewTranscriber(runner, whisper.Options{
		ModelsDir: config.ModelsDir(),
		Model:     cfg.Defaults.Model,
		Language:  cfg.Speech.Language,
		BinPath:   cfg.Paths.Whisper,
	})

	return &App{
		Config:      cfg,
		Log:         log,
		Downloader:  downloader,
		Transcoder:  transcoder,
		Whisper:     whisperTr,
		Cache:       cacheStore,
		Reports:     report.NewOsWriter(),
		CacheSvc:    application.NewCacheService(cacheStore),
		DownloadSvc: application.NewDownloadService(downloader, log),
	}
}

// Recognizer returns the speech backend selected in the config. The
// azure backend fails with domain.ErrMissingCredential when no key is set.
func (a *App) Recognizer() (ports.Transcriber, error) {
	switch a.Config.Defaults.Backend {
	case config.BackendWhisper:
		return a.Whisper, nil
	default:
		client, err := azure.NewClient(a.Config.Speech, azure.WithLogger(a.Log))
		if err != nil {
			return nil, fmt.Errorf("azure speech: %w (set %s)", err, config.EnvSpeechKey)
		}
		return client, nil
	}
}

// BatchService builds a batch service reporting to observer
func (a *App) BatchService(observer ports.ProgressObserver) (*application.BatchService, error) {
	recognizer, err := a.Recognizer()
	if err != nil {
		return nil, err
	}

	ttl, err := a.Config.GetCacheTTL()
	if err != nil {
		return nil, err
	}

	svc := application.NewBatchService(
		workspace.NewOsManager(a.Config.Defaults.OutputDir),
		a.Downloader,
		a.Transcoder,
		recognizer,
		a.Reports,
		a.Log,
	).WithCache(a.Cache, ttl)

	if observer != nil {
		svc.WithObserver(observer)
	}
	if a.Config.Batch.Docx {
		svc.WithRenderer(report.NewDocxRenderer("Combined transcript"))
	}
	return svc, nil
}

// BatchOptions derives run options from the config
func (a *App) BatchOptions(batchID string) (application.BatchOptions, error) {
	timeout, err := a.Config.GetTaskTimeout()
	if err != nil {
		return application.BatchOptions{}, err
	}
	return application.BatchOptions{
		BatchID:       batchID,
		Concurrency:   a.Config.Batch.Concurrency,
		TaskTimeout:   timeout,
		NoCache:       noCacheFlag,
		KeepWorkspace: a.Config.Batch.KeepWorkspace,
		Language:      a.Config.Speech.Language,
	}, nil
}

// LoadConfig resolves the configuration: defaults, config file, .env,
// environment, then command-line flags.
func LoadConfig(flags *pflag.FlagSet, getenv func(string) string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	path := configFlag
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(getenv)
	applyFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags == nil {
		return
	}
	set := func(name string, apply func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}

	set("out", func() { cfg.Defaults.OutputDir = outFlag })
	set("backend", func() { cfg.Defaults.Backend = backendFlag })
	set("model", func() { cfg.Defaults.Model = modelFlag })
	set("language", func() { cfg.Speech.Language = languageFlag })
	set("concurrency", func() { cfg.Batch.Concurrency = concurrencyFlag })
	set("timeout", func() { cfg.Batch.TaskTimeout = timeoutFlag })
	set("keep-workspace", func() { cfg.Batch.KeepWorkspace = keepWorkspaceFlag })
	set("docx", func() { cfg.Batch.Docx = docxFlag })
	set("log-level", func() { cfg.Logging.Level = logLevelFlag })
	set("log-format", func() { cfg.Logging.Format = logFormatFlag })
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed
func GetApp(cmd *cobra.Command) (*App, error) {
	if globalApp != nil {
		return globalApp, nil
	}

	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(cmd.Flags(), os.Getenv)
	if err != nil {
		return nil, err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	globalApp = NewApp(cfg, log)
	return globalApp, nil
}

// batchIDFor derives a unique batch id from a URL list file name
func batchIDFor(path string, now time.Time) string {
	base := filepath.Base(path)
	base = base[:len(base)-len(filepath.Ext(base))]
	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}
