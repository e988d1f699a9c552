package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/devbush/tubescribe/internal/adapters/fetch"
	"github.com/devbush/tubescribe/internal/config"
	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/ports"
	"github.com/devbush/tubescribe/pkg/executor"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "small"

// outputBaseName is the whisper.cpp output prefix inside the task dir.
const outputBaseName = "whisper"

// Model sizes in bytes (approximate)
var modelSizes = map[string]int64{
	"tiny":   75 * 1024 * 1024,
	"base":   140 * 1024 * 1024,
	"small":  462 * 1024 * 1024,
	"medium": 1500 * 1024 * 1024,
	"large":  3000 * 1024 * 1024,
}

// Options configures a Transcriber
type Options struct {
	ModelsDir string
	Model     string
	Language  string // BCP-47 tag or bare language code; empty auto-detects
	BinPath   string
}

// Transcriber implements ports.Transcriber and ports.ModelManager using whisper.cpp
type Transcriber struct {
	exec      executor.Executor
	modelsDir string
	model     string
	language  string

	mu      sync.Mutex
	binPath string
}

// NewTranscriber creates a new Whisper transcriber
func NewTranscriber(runner executor.Executor, opts Options) *Transcriber {
	if opts.ModelsDir == "" {
		opts.ModelsDir = config.ModelsDir()
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &Transcriber{
		exec:      runner,
		modelsDir: opts.ModelsDir,
		model:     opts.Model,
		language:  whisperLanguage(opts.Language),
		binPath:   opts.BinPath,
	}
}

// whisperLanguage reduces "en-US" to the "en" code whisper.cpp expects.
func whisperLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}

func modelURL(name string) string {
	return fmt.Sprintf("https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-%s.bin", name)
}

func (t *Transcriber) modelPath(name string) string {
	return filepath.Join(t.modelsDir, fmt.Sprintf("ggml-%s.bin", name))
}

func (t *Transcriber) Name() string {
	return config.BackendWhisper
}

func (t *Transcriber) AvailableModels() []ports.Model {
	models := []ports.Model{
		{Name: "tiny", Size: modelSizes["tiny"], Description: "~75MB, basic accuracy, very fast"},
		{Name: "base", Size: modelSizes["base"], Description: "~140MB, good accuracy, fast"},
		{Name: "small", Size: modelSizes["small"], Description: "~462MB, better accuracy, moderate speed"},
		{Name: "medium", Size: modelSizes["medium"], Description: "~1.5GB, great accuracy, slower"},
		{Name: "large", Size: modelSizes["large"], Description: "~3GB, best accuracy, slow"},
	}

	for i := range models {
		models[i].Downloaded = t.IsModelDownloaded(models[i].Name)
	}

	return models
}

func (t *Transcriber) IsModelDownloaded(model string) bool {
	_, err := os.Stat(t.modelPath(model))
	return err == nil
}

func (t *Transcriber) DownloadModel(ctx context.Context, model string, progress func(downloaded, total int64)) error {
	if _, ok := modelSizes[model]; !ok {
		return fmt.Errorf("unknown model: %s", model)
	}

	if err := fetch.File(ctx, http.DefaultClient, modelURL(model), t.modelPath(model), progress); err != nil {
		return fmt.Errorf("failed to download model: %w", err)
	}
	return nil
}

func (t *Transcriber) DeleteModel(model string) error {
	return os.Remove(t.modelPath(model))
}

// Transcribe runs whisper.cpp on wavPath. Output files are written next
// to the input so concurrent tasks never share them.
func (t *Transcriber) Transcribe(ctx context.Context, wavPath string) domain.RecognitionResult {
	if !t.IsModelDownloaded(t.model) {
		return domain.BackendError(fmt.Sprintf("%v: %s (run: tubescribe model download %s)", domain.ErrModelNotFound, t.model, t.model))
	}

	whisperBin := t.GetBinaryPath()
	if whisperBin == "" {
		return domain.BackendError("whisper binary not found (install whisper.cpp)")
	}

	outputBase := filepath.Join(filepath.Dir(wavPath), outputBaseName)
	args := []string{
		"-m", t.modelPath(t.model),
		"-f", wavPath,
		"-of", outputBase,
		"-oj", // JSON output
	}
	if t.language != "" {
		args = append(args, "-l", t.language)
	}

	result, err := t.exec.Execute(ctx, whisperBin, args...)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return domain.Cancelled("Timeout", "whisper did not finish before the task deadline")
		case errors.Is(ctx.Err(), context.Canceled):
			return domain.Cancelled("Cancelled", "batch cancelled")
		}
		detail := err.Error()
		if result != nil && result.ExitCode > 0 {
			detail = fmt.Sprintf("whisper exited with status %d", result.ExitCode)
		}
		return domain.BackendError(detail)
	}

	transcript, err := t.parseWhisperJSON(outputBase + ".json")
	if err != nil {
		return domain.BackendError(fmt.Sprintf("failed to read whisper output: %v", err))
	}
	return transcript.Result()
}

func (t *Transcriber) GetBinaryPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.binPath == "" {
		t.binPath = findWhisperBinary()
	}
	return t.binPath
}

func findWhisperBinary() string {
	names := []string{"whisper-cli", "whisper", "whisper-cpp", "main"}
	if runtime.GOOS == "windows" {
		names = []string{"whisper-cli.exe", "whisper.exe", "whisper-cpp.exe", "main.exe"}
	}

	// Check bundled location
	for _, name := range names {
		bundled := filepath.Join(config.BinDir(), name)
		if _, err := os.Stat(bundled); err == nil {
			return bundled
		}
	}

	// Check PATH
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

func (t *Transcriber) parseWhisperJSON(path string) (*domain.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var output struct {
		Result struct {
			Language string `json:"language"`
		} `json:"result"`
		Transcription []struct {
			Timestamps struct {
				From string `json:"from"`
				To   string `json:"to"`
			} `json:"timestamps"`
			Text string `json:"text"`
		} `json:"transcription"`
	}

	if err := json.Unmarshal(data, &output); err != nil {
		return nil, err
	}

	segments := make([]domain.Segment, 0, len(output.Transcription))
	for _, item := range output.Transcription {
		segments = append(segments, domain.Segment{
			Start: parseTimestamp(item.Timestamps.From),
			End:   parseTimestamp(item.Timestamps.To),
			Text:  strings.TrimSpace(item.Text),
		})
	}

	language := output.Result.Language
	if language == "" {
		language = t.language
	}

	return &domain.Transcript{
		Segments:      segments,
		Backend:       t.Name() + "/" + t.model,
		Language:      language,
		TranscribedAt: time.Now(),
	}, nil
}

var timestampRegex = regexp.MustCompile(`(\d+):(\d+):(\d+)[,.](\d+)`)

func parseTimestamp(ts string) float64 {
	matches := timestampRegex.FindStringSubmatch(ts)
	if len(matches) != 5 {
		return 0
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])
	millis, _ := strconv.Atoi(matches[4])

	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
}

// Ensure Transcriber implements interfaces
var _ ports.Transcriber = (*Transcriber)(nil)
var _ ports.ModelManager = (*Transcriber)(nil)
