package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/pkg/executor"
)

type mockExecutor struct {
	args   []string
	result *executor.Result
	err    error
	// writeOutput creates the output file named by the last argument
	writeOutput bool
}

func (m *mockExecutor) Execute(ctx context.Context, name string, args ...string) (*executor.Result, error) {
	m.args = args
	if m.writeOutput {
		_ = os.WriteFile(args[len(args)-1], []byte("RIFF....WAVE"), 0644)
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

func TestBuildArgs(t *testing.T) {
	args := buildArgs("/in/a.mp3", "/out/audio.wav")
	want := "-hide_banner -nostdin -y -i /in/a.mp3 -vn -ac 1 -ar 16000 -c:a pcm_s16le /out/audio.wav"

	if got := strings.Join(args, " "); got != want {
		t.Errorf("buildArgs() = %q, want %q", got, want)
	}
}

func TestTranscoder_Transcode(t *testing.T) {
	dir := t.TempDir()
	exec := &mockExecutor{writeOutput: true}
	tc := NewTranscoder(exec, "/usr/bin/ffmpeg")

	out, err := tc.Transcode(context.Background(), filepath.Join(dir, "clip.mp3"), dir)
	if err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}
	if out != filepath.Join(dir, WavFileName) {
		t.Errorf("output = %q", out)
	}
}

func TestTranscoder_Transcode_NonZeroExit(t *testing.T) {
	exec := &mockExecutor{
		result: &executor.Result{Stderr: "line1\nInvalid data found when processing input\n", ExitCode: 1},
		err:    errors.New("exit status 1"),
	}
	tc := NewTranscoder(exec, "/usr/bin/ffmpeg")

	_, err := tc.Transcode(context.Background(), "/in/a.mp3", t.TempDir())
	var taskErr *domain.TaskError
	if !errors.As(err, &taskErr) || taskErr.Kind != domain.KindTranscode {
		t.Fatalf("Transcode() error = %v, want transcode TaskError", err)
	}
	if taskErr.Message != "ffmpeg exited with status 1" {
		t.Errorf("Message = %q", taskErr.Message)
	}
	if !strings.Contains(taskErr.Detail, "Invalid data found") {
		t.Errorf("Detail = %q", taskErr.Detail)
	}
}

func TestTranscoder_Transcode_MissingOutput(t *testing.T) {
	exec := &mockExecutor{}
	tc := NewTranscoder(exec, "/usr/bin/ffmpeg")

	_, err := tc.Transcode(context.Background(), "/in/a.mp3", t.TempDir())
	if !errors.Is(err, domain.ErrTranscode) {
		t.Fatalf("Transcode() error = %v, want ErrTranscode", err)
	}
}

func TestTail(t *testing.T) {
	s := "a\n\nb\nc\r\nd\n"
	if got := tail(s, 2); got != "c\nd" {
		t.Errorf("tail() = %q", got)
	}
	if got := tail("", 3); got != "" {
		t.Errorf("tail(empty) = %q", got)
	}
}

func TestBinaryName(t *testing.T) {
	want := "ffmpeg"
	if runtime.GOOS == "windows" {
		want = "ffmpeg.exe"
	}
	if got := binaryName(); got != want {
		t.Errorf("binaryName() = %s, want %s", got, want)
	}
}

func TestExtractBinaries_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.7z")
	_ = os.WriteFile(path, []byte("not a 7z archive"), 0644)

	if _, err := extractBinaries(path, t.TempDir(), []string{"ffmpeg.exe"}); err == nil {
		t.Error("extractBinaries() expected error for invalid archive")
	}
}

func TestInstall_UnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("install is supported on Windows")
	}
	tc := NewTranscoder(&mockExecutor{}, "")
	if err := tc.Install(context.Background(), nil); err == nil {
		t.Error("Install() expected error outside Windows")
	}
}
