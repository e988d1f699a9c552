package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/devbush/tubescribe/internal/config"
	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/ports"
	"github.com/devbush/tubescribe/pkg/executor"
)

// WavFileName is the name of the transcoded recognizer input.
const WavFileName = "audio.wav"

const (
	sampleRate = "16000"
	channels   = "1"
	codec      = "pcm_s16le"
)

// Transcoder implements AudioTranscoder and ExternalTool using ffmpeg
type Transcoder struct {
	exec executor.Executor

	mu      sync.Mutex
	binPath string
}

// NewTranscoder creates a new ffmpeg transcoder. An empty binPath looks
// for a bundled binary first, then the system PATH.
func NewTranscoder(runner executor.Executor, binPath string) *Transcoder {
	return &Transcoder{exec: runner, binPath: binPath}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func ffprobeBinaryName() string {
	if runtime.GOOS == "windows" {
		return "ffprobe.exe"
	}
	return "ffprobe"
}

func (t *Transcoder) findBinary() string {
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}
	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}
	return ""
}

func (t *Transcoder) Name() string {
	return "ffmpeg"
}

func (t *Transcoder) GetBinaryPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.binPath == "" {
		t.binPath = t.findBinary()
	}
	return t.binPath
}

func (t *Transcoder) IsAvailable() bool {
	return t.GetBinaryPath() != ""
}

func buildArgs(inputPath, outputPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", channels,
		"-ar", sampleRate,
		"-c:a", codec,
		outputPath,
	}
}

// Transcode converts inputPath to <destDir>/audio.wav (16 kHz mono PCM).
func (t *Transcoder) Transcode(ctx context.Context, inputPath string, destDir string) (string, error) {
	binPath := t.GetBinaryPath()
	if binPath == "" {
		return "", domain.NewTaskError(domain.KindTranscode, "ffmpeg is not installed", domain.ErrFFmpegNotFound).
			WithDetail(t.Instructions())
	}

	outputPath := filepath.Join(destDir, WavFileName)
	result, err := t.exec.Execute(ctx, binPath, buildArgs(inputPath, outputPath)...)
	if err != nil {
		detail := ""
		msg := fmt.Sprintf("ffmpeg failed: %v", err)
		if result != nil {
			detail = tail(result.Stderr, 10)
			if result.ExitCode > 0 {
				msg = fmt.Sprintf("ffmpeg exited with status %d", result.ExitCode)
			}
		}
		return "", domain.NewTaskError(domain.KindTranscode, msg, err).WithDetail(detail)
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return "", domain.NewTaskError(domain.KindTranscode, "ffmpeg produced no output file", err).
			WithDetail(tail(result.Stderr, 10))
	}

	return outputPath, nil
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// Instructions returns platform-specific installation instructions.
func (t *Transcoder) Instructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install ffmpeg with: brew install ffmpeg"
	case "windows":
		return "Run: tubescribe deps install (downloads a static ffmpeg build)"
	default:
		return "Install ffmpeg with your package manager, e.g. sudo apt install ffmpeg"
	}
}

// Ensure Transcoder implements interfaces
var _ ports.AudioTranscoder = (*Transcoder)(nil)
var _ ports.ExternalTool = (*Transcoder)(nil)
