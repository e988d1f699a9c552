package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/devbush/tubescribe/internal/adapters/fetch"
	"github.com/devbush/tubescribe/internal/config"
)

// windowsBuildURL points at the static "essentials" release build.
const windowsBuildURL = "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.7z"

// Install downloads a static ffmpeg build into the bundled bin directory.
// Only Windows builds are distributed this way; elsewhere the system
// package manager is the supported route.
func (t *Transcoder) Install(ctx context.Context, progress func(downloaded, total int64)) error {
	if runtime.GOOS != "windows" {
		return fmt.Errorf("automatic ffmpeg install is only supported on Windows: %s", t.Instructions())
	}

	binDir := config.BinDir()
	archivePath := filepath.Join(binDir, "ffmpeg-release-essentials.7z")
	if err := fetch.File(ctx, http.DefaultClient, windowsBuildURL, archivePath, progress); err != nil {
		return fmt.Errorf("failed to download ffmpeg: %w", err)
	}
	defer os.Remove(archivePath)

	if _, err := extractBinaries(archivePath, binDir, []string{binaryName(), ffprobeBinaryName()}); err != nil {
		return err
	}

	t.mu.Lock()
	t.binPath = filepath.Join(binDir, binaryName())
	t.mu.Unlock()
	return nil
}

// extractBinaries copies the named files from anywhere inside a 7z
// archive into destDir and returns their paths.
func extractBinaries(archivePath, destDir string, names []string) ([]string, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(n)] = true
	}

	var extracted []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := strings.ToLower(path.Base(strings.ReplaceAll(f.Name, "\\", "/")))
		if !wanted[base] {
			continue
		}

		dest := filepath.Join(destDir, path.Base(strings.ReplaceAll(f.Name, "\\", "/")))
		if err := extractFile(f, dest); err != nil {
			return extracted, err
		}
		extracted = append(extracted, dest)
		delete(wanted, base)
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for n := range wanted {
			missing = append(missing, n)
		}
		return extracted, fmt.Errorf("archive does not contain %s", strings.Join(missing, ", "))
	}
	return extracted, nil
}

func extractFile(f *sevenzip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return out.Close()
}
