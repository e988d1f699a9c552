package ytdlp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/devbush/tubescribe/internal/adapters/fetch"
	"github.com/devbush/tubescribe/internal/config"
	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/ports"
	"github.com/devbush/tubescribe/pkg/executor"
)

// AudioExt is the extension of the files yt-dlp is asked to produce.
const AudioExt = ".mp3"

// maxWarnings caps how many stderr lines are kept from a successful run.
const maxWarnings = 20

// Downloader implements AudioAcquirer and ExternalTool using yt-dlp
type Downloader struct {
	exec   executor.Executor
	client *http.Client

	mu      sync.Mutex
	binPath string
}

// NewDownloader creates a new yt-dlp downloader. An empty binPath looks
// for a bundled binary first, then the system PATH.
func NewDownloader(runner executor.Executor, binPath string) *Downloader {
	return &Downloader{
		exec:    runner,
		client:  http.DefaultClient,
		binPath: binPath,
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "yt-dlp.exe"
	}
	return "yt-dlp"
}

func (d *Downloader) findBinary() string {
	// Check bundled location first
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	// Check system PATH
	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

func (d *Downloader) Name() string {
	return "yt-dlp"
}

func (d *Downloader) GetBinaryPath() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.binPath == "" {
		d.binPath = d.findBinary()
	}
	return d.binPath
}

func (d *Downloader) IsAvailable() bool {
	return d.GetBinaryPath() != ""
}

// buildArgs never lets the URL be parsed as an option.
func buildArgs(url, destDir string) []string {
	return []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--no-check-certificate",
		"--no-playlist",
		"--output", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--",
		url,
	}
}

// Acquire downloads the audio track of url into destDir.
func (d *Downloader) Acquire(ctx context.Context, url string, destDir string) (*ports.AcquireResult, error) {
	url = strings.TrimSpace(url)
	if err := domain.ValidateSourceURL(url); err != nil {
		return nil, domain.NewTaskError(domain.KindDownload, fmt.Sprintf("invalid URL: %v", err), err)
	}

	binPath := d.GetBinaryPath()
	if binPath == "" {
		return nil, domain.NewTaskError(domain.KindDownload, "yt-dlp is not installed (run: tubescribe deps install)", domain.ErrYtDlpNotFound)
	}

	result, err := d.exec.Execute(ctx, binPath, buildArgs(url, destDir)...)
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = result.Stderr
		}
		return nil, domain.NewTaskError(domain.KindDownload, classifyFailure(stderr, err), err).
			WithDetail(strings.TrimSpace(stderr))
	}

	audioPath, err := findAudio(destDir)
	if err != nil {
		return nil, err
	}

	return &ports.AcquireResult{
		AudioPath: audioPath,
		Warnings:  parseWarnings(result.Stderr),
	}, nil
}

// classifyFailure turns yt-dlp diagnostics into a short message.
func classifyFailure(stderr string, err error) string {
	switch {
	case strings.Contains(stderr, "Private video"):
		return "video is private"
	case strings.Contains(stderr, "Video unavailable"):
		return "video unavailable"
	case strings.Contains(stderr, "HTTP Error 429") || strings.Contains(stderr, "Too Many Requests"):
		return "rate limited by the video host (HTTP 429)"
	case strings.Contains(stderr, "is not a valid URL"):
		return "not a valid URL"
	case strings.Contains(stderr, "Unsupported URL"):
		return "unsupported URL"
	}

	if line := lastErrorLine(stderr); line != "" {
		return line
	}
	return fmt.Sprintf("yt-dlp failed: %v", err)
}

func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	if len(lines) > 0 {
		return strings.TrimSpace(lines[len(lines)-1])
	}
	return ""
}

func parseWarnings(stderr string) []string {
	var warnings []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(warnings) == maxWarnings {
			break
		}
		warnings = append(warnings, line)
	}
	return warnings
}

// findAudio returns the first .mp3 file in dir.
func findAudio(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", domain.NewTaskError(domain.KindAudioNotFound, fmt.Sprintf("cannot read %s", dir), err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), AudioExt) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", domain.NewTaskError(domain.KindAudioNotFound,
		fmt.Sprintf("download produced no %s file", AudioExt), nil)
}

func (d *Downloader) Install(ctx context.Context, progress func(downloaded, total int64)) error {
	destPath := filepath.Join(config.BinDir(), binaryName())

	if err := fetch.File(ctx, d.client, getDownloadURL(), destPath, progress); err != nil {
		return fmt.Errorf("failed to download yt-dlp: %w", err)
	}

	// Make executable on Unix
	if runtime.GOOS != "windows" {
		if err := os.Chmod(destPath, 0755); err != nil {
			return err
		}
	}

	d.mu.Lock()
	d.binPath = destPath
	d.mu.Unlock()
	return nil
}

func getDownloadURL() string {
	base := "https://github.com/yt-dlp/yt-dlp/releases/latest/download/"

	switch runtime.GOOS {
	case "windows":
		return base + "yt-dlp.exe"
	case "darwin":
		return base + "yt-dlp_macos"
	default:
		return base + "yt-dlp"
	}
}

// Update runs yt-dlp's self-updater.
func (d *Downloader) Update(ctx context.Context) (string, error) {
	binPath := d.GetBinaryPath()
	if binPath == "" {
		return "", domain.ErrYtDlpNotFound
	}

	result, err := d.exec.Execute(ctx, binPath, "-U")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// Version reports the installed yt-dlp version.
func (d *Downloader) Version(ctx context.Context) (string, error) {
	binPath := d.GetBinaryPath()
	if binPath == "" {
		return "", domain.ErrYtDlpNotFound
	}
	result, err := d.exec.Execute(ctx, binPath, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

func (d *Downloader) Instructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install yt-dlp (or run: tubescribe deps install)"
	case "windows":
		return "Install with: winget install yt-dlp (or run: tubescribe deps install)"
	default:
		return "Install with your package manager, pipx install yt-dlp, or run: tubescribe deps install"
	}
}

// Ensure Downloader implements interfaces
var _ ports.AudioAcquirer = (*Downloader)(nil)
var _ ports.ExternalTool = (*Downloader)(nil)
