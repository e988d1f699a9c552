package ports

import "context"

// AudioTranscoder converts acquired audio into recognizer input.
type AudioTranscoder interface {
	// Transcode writes a 16 kHz mono PCM WAV of inputPath into destDir
	// and returns its path.
	Transcode(ctx context.Context, inputPath string, destDir string) (string, error)
}
