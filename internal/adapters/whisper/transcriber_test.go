package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/pkg/executor"
)

// mockExecutor simulates whisper.cpp by writing a JSON file for -of
type mockExecutor struct {
	args   []string
	json   string
	result *executor.Result
	err    error
}

func (m *mockExecutor) Execute(ctx context.Context, name string, args ...string) (*executor.Result, error) {
	m.args = args
	if m.json != "" {
		for i, a := range args {
			if a == "-of" {
				_ = os.WriteFile(args[i+1]+".json", []byte(m.json), 0644)
			}
		}
	}
	result := m.result
	if result == nil {
		result = &executor.Result{}
	}
	return result, m.err
}

func (m *mockExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (*executor.Result, error) {
	return m.Execute(ctx, name, args...)
}

// setup creates a models dir with a fake small model and a task dir wav
func setup(t *testing.T, exec *mockExecutor, lang string) (*Transcriber, string) {
	t.Helper()
	modelsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(modelsDir, "ggml-small.bin"), []byte("fake model"), 0644); err != nil {
		t.Fatal(err)
	}
	taskDir := t.TempDir()
	wav := filepath.Join(taskDir, "audio.wav")
	_ = os.WriteFile(wav, []byte("RIFF"), 0644)

	tr := NewTranscriber(exec, Options{ModelsDir: modelsDir, Language: lang, BinPath: "/usr/bin/whisper-cli"})
	return tr, wav
}

const speechJSON = `{
  "result": {"language": "en"},
  "transcription": [
    {"timestamps": {"from": "00:00:00,000", "to": "00:00:02,000"}, "text": " Hello world."},
    {"timestamps": {"from": "00:00:02,000", "to": "00:00:04,000"}, "text": " How are you?"}
  ]
}`

func TestAvailableModels(t *testing.T) {
	tr := NewTranscriber(&mockExecutor{}, Options{})
	models := tr.AvailableModels()

	if len(models) != 5 {
		t.Errorf("AvailableModels() returned %d models, want 5", len(models))
	}

	// Check that "small" exists
	found := false
	for _, m := range models {
		if m.Name == "small" {
			found = true
			if m.Size == 0 {
				t.Error("small model has zero size")
			}
		}
	}
	if !found {
		t.Error("small model not found in AvailableModels()")
	}
}

func TestModelURL(t *testing.T) {
	url := modelURL("small")
	expected := "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-small.bin"

	if url != expected {
		t.Errorf("modelURL(small) = %s, want %s", url, expected)
	}
}

func TestIsModelDownloaded_And_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	tr := NewTranscriber(&mockExecutor{}, Options{ModelsDir: tmpDir})

	if tr.IsModelDownloaded("small") {
		t.Error("IsModelDownloaded() = true for non-existent model")
	}

	modelPath := filepath.Join(tmpDir, "ggml-small.bin")
	if err := os.WriteFile(modelPath, []byte("fake model"), 0644); err != nil {
		t.Fatalf("failed to create test model file: %v", err)
	}
	if !tr.IsModelDownloaded("small") {
		t.Error("IsModelDownloaded() = false for existing model")
	}

	if err := tr.DeleteModel("small"); err != nil {
		t.Errorf("DeleteModel() returned error: %v", err)
	}
	if tr.IsModelDownloaded("small") {
		t.Error("model should not exist after deletion")
	}
	if err := tr.DeleteModel("small"); err == nil {
		t.Error("DeleteModel() should return error for non-existent model")
	}
}

func TestDownloadModelUnknown(t *testing.T) {
	tr := NewTranscriber(&mockExecutor{}, Options{ModelsDir: t.TempDir()})

	if err := tr.DownloadModel(context.Background(), "unknown-model", nil); err == nil {
		t.Error("DownloadModel() should return error for unknown model")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"00:00:00,000", 0.0},
		{"00:00:01,500", 1.5},
		{"01:30:45,123", 5445.123},
		{"00:00:00.500", 0.5}, // Period instead of comma
		{"invalid", 0.0},      // Invalid format returns 0
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := parseTimestamp(tt.input); result != tt.expected {
				t.Errorf("parseTimestamp(%s) = %f, want %f", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWhisperLanguage(t *testing.T) {
	tests := map[string]string{
		"en-US": "en",
		"de_DE": "de",
		"fr":    "fr",
		"":      "",
		" PT-br": "pt",
	}
	for in, want := range tests {
		if got := whisperLanguage(in); got != want {
			t.Errorf("whisperLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTranscribe_Recognized(t *testing.T) {
	exec := &mockExecutor{json: speechJSON}
	tr, wav := setup(t, exec, "en-US")

	result := tr.Transcribe(context.Background(), wav)
	if !result.OK() {
		t.Fatalf("Transcribe() = %+v", result)
	}
	if result.Text != "Hello world. How are you?" {
		t.Errorf("Text = %q", result.Text)
	}

	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "-l en") {
		t.Errorf("args missing language: %v", exec.args)
	}
	if !strings.Contains(joined, "-of "+filepath.Join(filepath.Dir(wav), outputBaseName)) {
		t.Errorf("output should be written to the task dir: %v", exec.args)
	}
}

func TestTranscribe_BlankAudioIsNoMatch(t *testing.T) {
	exec := &mockExecutor{json: `{"transcription":[{"timestamps":{"from":"00:00:00,000","to":"00:00:05,000"},"text":" [BLANK_AUDIO]"}]}`}
	tr, wav := setup(t, exec, "")

	if result := tr.Transcribe(context.Background(), wav); result.Outcome != domain.OutcomeNoMatch {
		t.Errorf("Transcribe() = %+v, want NoMatch", result)
	}
}

func TestTranscribe_ModelMissing(t *testing.T) {
	tr := NewTranscriber(&mockExecutor{}, Options{ModelsDir: t.TempDir(), BinPath: "/usr/bin/whisper-cli"})

	result := tr.Transcribe(context.Background(), "/tmp/audio.wav")
	if result.Outcome != domain.OutcomeBackendError || !strings.Contains(result.Detail, "model download small") {
		t.Errorf("Transcribe() = %+v", result)
	}
}

func TestTranscribe_NonZeroExit(t *testing.T) {
	exec := &mockExecutor{result: &executor.Result{ExitCode: 2}, err: errors.New("exit status 2")}
	tr, wav := setup(t, exec, "")

	result := tr.Transcribe(context.Background(), wav)
	if result.Outcome != domain.OutcomeBackendError || result.Detail != "whisper exited with status 2" {
		t.Errorf("Transcribe() = %+v", result)
	}
}

func TestTranscribe_Deadline(t *testing.T) {
	exec := &mockExecutor{err: context.DeadlineExceeded}
	tr, wav := setup(t, exec, "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	result := tr.Transcribe(ctx, wav)
	if result.Outcome != domain.OutcomeCancelled || result.Reason != "Timeout" {
		t.Errorf("Transcribe() = %+v, want Cancelled(Timeout)", result)
	}
}

// outputExecutor writes the same whisper JSON for every call and keeps no state.
type outputExecutor struct{ json string }

func (e outputExecutor) Execute(ctx context.Context, name string, args ...string) (*executor.Result, error) {
	for i, a := range args {
		if a == "-of" {
			_ = os.WriteFile(args[i+1]+".json", []byte(e.json), 0644)
		}
	}
	return &executor.Result{}, nil
}

func (e outputExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (*executor.Result, error) {
	return e.Execute(ctx, name, args...)
}

func TestTranscribe_ConcurrentWorkers(t *testing.T) {
	modelsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(modelsDir, "ggml-small.bin"), []byte("fake model"), 0644); err != nil {
		t.Fatal(err)
	}
	// No BinPath, so every worker goes through the lazy binary lookup.
	tr := NewTranscriber(outputExecutor{json: speechJSON}, Options{ModelsDir: modelsDir})

	const workers = 8
	results := make([]domain.RecognitionResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wav := filepath.Join(t.TempDir(), "audio.wav")
		wg.Add(1)
		go func(i int, wav string) {
			defer wg.Done()
			results[i] = tr.Transcribe(context.Background(), wav)
		}(i, wav)
	}
	wg.Wait()

	bin := tr.GetBinaryPath()
	for i, result := range results {
		if bin == "" {
			if result.Outcome != domain.OutcomeBackendError {
				t.Errorf("worker %d: Transcribe() = %+v, want BackendError without a binary", i, result)
			}
			continue
		}
		if !result.OK() || result.Text != "Hello world. How are you?" {
			t.Errorf("worker %d: Transcribe() = %+v", i, result)
		}
	}
}
