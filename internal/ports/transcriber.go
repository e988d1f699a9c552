package ports

import (
	"context"

	"github.com/devbush/tubescribe/internal/domain"
)

// Model represents a Whisper model
type Model struct {
	Name        string
	Size        int64 // bytes
	Description string
	Downloaded  bool
}

// Transcriber handles speech-to-text conversion
type Transcriber interface {
	// Transcribe submits one WAV file and reports the recognition outcome.
	// Failures are expressed as non-Recognized results, never as errors.
	Transcribe(ctx context.Context, wavPath string) domain.RecognitionResult

	// Name identifies the backend in logs and cache entries
	Name() string
}

// ModelManager manages locally stored recognition models
type ModelManager interface {
	// AvailableModels returns list of available models
	AvailableModels() []Model

	// IsModelDownloaded checks if a model is available locally
	IsModelDownloaded(model string) bool

	// DownloadModel downloads a model with progress callback
	DownloadModel(ctx context.Context, model string, progress func(downloaded, total int64)) error

	// DeleteModel removes a downloaded model
	DeleteModel(model string) error
}
