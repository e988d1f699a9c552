package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devbush/tubescribe/internal/config"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfig_FlagsOverrideFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `defaults:
  backend: whisper
  output_dir: /from/file
batch:
  concurrency: 2
speech:
  region: northeurope
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd()
	defer func() { configFlag = "" }()
	if err := root.ParseFlags([]string{"--config", path, "-c", "4", "--out", "/from/flag"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg, err := LoadConfig(root.Flags(), fakeEnv(map[string]string{
		config.EnvSpeechKey:    "secret",
		config.EnvSpeechRegion: "eastus",
	}))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Defaults.Backend != config.BackendWhisper {
		t.Errorf("Backend = %s, want whisper (file value, flag not set)", cfg.Defaults.Backend)
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Batch.Concurrency)
	}
	if cfg.Defaults.OutputDir != "/from/flag" {
		t.Errorf("OutputDir = %s, want /from/flag", cfg.Defaults.OutputDir)
	}
	if cfg.Speech.Key != "secret" || cfg.Speech.Region != "eastus" {
		t.Errorf("Speech = %+v, want env values", cfg.Speech)
	}
}

func TestLoadConfig_InvalidConcurrency(t *testing.T) {
	root := NewRootCmd()
	defer func() { configFlag = "" }()
	_ = root.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "-c", "99"})

	if _, err := LoadConfig(root.Flags(), fakeEnv(nil)); err == nil {
		t.Error("LoadConfig() should reject concurrency above the maximum")
	}
}

func TestApp_RecognizerRequiresKey(t *testing.T) {
	cfg := config.DefaultConfig()
	app := NewApp(cfg, nil)

	if _, err := app.Recognizer(); err == nil {
		t.Error("azure backend without a key should fail")
	}

	cfg.Defaults.Backend = config.BackendWhisper
	rec, err := app.Recognizer()
	if err != nil {
		t.Fatalf("whisper backend error = %v", err)
	}
	if rec.Name() != config.BackendWhisper {
		t.Errorf("Recognizer().Name() = %s", rec.Name())
	}
}

func TestBatchIDFor(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := batchIDFor("/in/monday.txt", now); got != "monday-1700000000123" {
		t.Errorf("batchIDFor() = %s", got)
	}
}
