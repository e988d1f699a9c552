package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/devbush/tubescribe/internal/domain"
)

func TestDownloadService_Download(t *testing.T) {
	p := newMockPipeline()
	p.warnings["https://youtu.be/AAAAAAAAAAA"] = []string{"WARNING: slow"}
	svc := NewDownloadService(p, nil)

	outDir := filepath.Join(t.TempDir(), "audio")
	result, err := svc.Download(context.Background(), "https://youtu.be/AAAAAAAAAAA", outDir)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if filepath.Dir(result.AudioPath) != outDir {
		t.Errorf("AudioPath = %q, want inside %q", result.AudioPath, outDir)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestDownloadService_Download_InvalidURL(t *testing.T) {
	p := newMockPipeline()
	svc := NewDownloadService(p, nil)

	_, err := svc.Download(context.Background(), "  ", t.TempDir())
	if !errors.Is(err, domain.ErrDownload) {
		t.Errorf("Download() error = %v, want ErrDownload", err)
	}
	if len(p.stageCalls("acquire")) != 0 {
		t.Error("acquirer should not run for an invalid URL")
	}
}
