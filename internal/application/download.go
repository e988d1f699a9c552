package application

import (
	"context"
	"fmt"
	"os"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/logger"
	"github.com/devbush/tubescribe/internal/ports"
)

// DownloadService fetches audio for a single URL without transcribing it.
type DownloadService struct {
	acquirer ports.AudioAcquirer
	log      logger.Logger
}

// NewDownloadService creates a new download service
func NewDownloadService(acquirer ports.AudioAcquirer, log logger.Logger) *DownloadService {
	if log == nil {
		log = logger.NewNop()
	}
	return &DownloadService{acquirer: acquirer, log: log}
}

// Download acquires the audio of url into outDir and returns the result.
func (s *DownloadService) Download(ctx context.Context, url string, outDir string) (*ports.AcquireResult, error) {
	if err := domain.ValidateSourceURL(url); err != nil {
		return nil, domain.NewTaskError(domain.KindDownload, err.Error(), err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, domain.NewTaskError(domain.KindFilesystem, fmt.Sprintf("failed to create %s", outDir), err)
	}

	s.log.Info(ctx, "downloading audio", "url", url, "dir", outDir)
	result, err := s.acquirer.Acquire(ctx, url, outDir)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		s.log.Warn(ctx, "downloader warning", "url", url, "warning", w)
	}
	s.log.Info(ctx, "audio downloaded", "path", result.AudioPath)
	return result, nil
}
