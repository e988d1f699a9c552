package ports

import (
	"context"
)

// AcquireResult contains the result of an audio acquisition.
type AcquireResult struct {
	AudioPath string   // path to the downloaded audio file
	Warnings  []string // diagnostics the downloader printed on a successful run
}

// AudioAcquirer fetches the audio track of one remote video.
type AudioAcquirer interface {
	// Acquire downloads and extracts audio for url into destDir.
	Acquire(ctx context.Context, url string, destDir string) (*AcquireResult, error)
}

// ExternalTool is a binary dependency the pipeline shells out to.
type ExternalTool interface {
	// Name returns the tool's display name.
	Name() string

	// IsAvailable checks if the tool is installed and ready.
	IsAvailable() bool

	// GetBinaryPath returns the path to the tool binary.
	GetBinaryPath() string

	// Install downloads and installs the tool, reporting progress via callback.
	Install(ctx context.Context, progress func(downloaded, total int64)) error

	// Instructions returns platform-specific manual installation steps.
	Instructions() string
}
