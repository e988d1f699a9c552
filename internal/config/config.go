package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devbush/tubescribe/internal/domain"
)

const (
	BackendAzure   = "azure"
	BackendWhisper = "whisper"

	// MaxConcurrency caps the worker pool size.
	MaxConcurrency = 16

	EnvSpeechKey    = "AZURE_SPEECH_KEY"
	EnvSpeechRegion = "AZURE_SPEECH_REGION"
)

// Config represents the application configuration
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Paths    PathsConfig    `yaml:"paths"`
	Speech   SpeechConfig   `yaml:"speech"`
	Batch    BatchConfig    `yaml:"batch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultsConfig holds default values
type DefaultsConfig struct {
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model"`
	CacheTTL  string `yaml:"cache_ttl"`
	OutputDir string `yaml:"output_dir"`
}

// PathsConfig holds custom path overrides
type PathsConfig struct {
	YtDlp   string `yaml:"yt_dlp"`
	FFmpeg  string `yaml:"ffmpeg"`
	Whisper string `yaml:"whisper"`
}

// SpeechConfig holds the Azure Speech credentials and endpoints. It is
// resolved once at startup and passed explicitly to the speech client.
type SpeechConfig struct {
	Key           string `yaml:"key,omitempty"`
	Region        string `yaml:"region"`
	Language      string `yaml:"language"`
	Endpoint      string `yaml:"endpoint,omitempty"`       // overrides the regional recognition URL
	TokenEndpoint string `yaml:"token_endpoint,omitempty"` // overrides the regional issueToken URL
}

// BatchConfig holds batch execution defaults
type BatchConfig struct {
	Concurrency   int    `yaml:"concurrency"`
	TaskTimeout   string `yaml:"task_timeout"`
	KeepWorkspace bool   `yaml:"keep_workspace"`
	Docx          bool   `yaml:"docx"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Backend:   BackendAzure,
			Model:     "small",
			CacheTTL:  "7d",
			OutputDir: "output",
		},
		Speech: SpeechConfig{
			Region:   "westeurope",
			Language: "en-US",
		},
		Batch: BatchConfig{
			Concurrency:   1,
			TaskTimeout:   "30m",
			KeepWorkspace: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// AppDir returns the application directory (~/.tubescribe)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tubescribe"
	}
	return filepath.Join(home, ".tubescribe")
}

// ModelsDir returns the models directory
func ModelsDir() string {
	return filepath.Join(AppDir(), "models")
}

// CacheDir returns the cache directory
func CacheDir() string {
	return filepath.Join(AppDir(), "cache")
}

// BinDir returns the bin directory
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{AppDir(), ModelsDir(), CacheDir(), BinDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads config from default path
func LoadDefault() (*Config, error) {
	return Load(ConfigPath())
}

// LoadDotEnv loads variables from a .env file into the process
// environment. Variables already set are kept and a missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides speech credentials from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if key := strings.TrimSpace(getenv(EnvSpeechKey)); key != "" {
		c.Speech.Key = key
	}
	if region := strings.TrimSpace(getenv(EnvSpeechRegion)); region != "" {
		c.Speech.Region = region
	}
}

// Validate checks the configuration and fills unset values.
func (c *Config) Validate() error {
	switch c.Defaults.Backend {
	case "":
		c.Defaults.Backend = BackendAzure
	case BackendAzure, BackendWhisper:
	default:
		return fmt.Errorf("defaults.backend must be %q or %q, got %q", BackendAzure, BackendWhisper, c.Defaults.Backend)
	}

	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = 1
	}
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > MaxConcurrency {
		return fmt.Errorf("batch.concurrency must be between 1 and %d, got %d", MaxConcurrency, c.Batch.Concurrency)
	}

	if c.Batch.TaskTimeout == "" {
		c.Batch.TaskTimeout = "30m"
	}
	if _, err := c.GetTaskTimeout(); err != nil {
		return fmt.Errorf("batch.task_timeout: %w", err)
	}

	if c.Defaults.CacheTTL == "" {
		c.Defaults.CacheTTL = "7d"
	}
	if _, err := c.GetCacheTTL(); err != nil {
		return fmt.Errorf("defaults.cache_ttl: %w", err)
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "output"
	}
	if c.Speech.Region == "" {
		c.Speech.Region = "westeurope"
	}
	if c.Speech.Language == "" {
		c.Speech.Language = "en-US"
	}

	switch strings.ToLower(c.Logging.Format) {
	case "":
		c.Logging.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveDefault saves config to default path
func (c *Config) SaveDefault() error {
	return c.Save(ConfigPath())
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Speech.Key != "" {
		out.Speech.Key = "********"
	}
	return &out
}

// GetCacheTTL returns the cache TTL as a duration
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return ParseDuration(c.Defaults.CacheTTL)
}

// GetTaskTimeout returns the per-task deadline as a duration
func (c *Config) GetTaskTimeout() (time.Duration, error) {
	return ParseDuration(c.Batch.TaskTimeout)
}

// RequireKey fails with domain.ErrMissingCredential when no subscription
// key is configured.
func (s SpeechConfig) RequireKey() error {
	if strings.TrimSpace(s.Key) == "" {
		return domain.ErrMissingCredential
	}
	return nil
}

var durationPattern = regexp.MustCompile(`^(\d+)(m|h|d)$`)

// ParseDuration parses duration strings like "30m", "24h", "7d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 30m, 24h, 7d)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
