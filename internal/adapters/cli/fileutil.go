package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// moveFile moves src into dstDir and returns the new path. A name already
// taken in dstDir gets a numeric suffix ("urls-1.txt") so a list dropped
// twice keeps both copies. Rename failures (e.g. across filesystems) fall
// back to copy and remove.
func moveFile(src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return "", err
	}
	dst, err := freeName(dstDir, filepath.Base(src))
	if err != nil {
		return "", err
	}

	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return dst, os.Remove(src)
}

func freeName(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for i := 1; i <= 1000; i++ {
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
	return "", fmt.Errorf("no free name for %s in %s", name, dir)
}

// copyFile copies src to dst, keeping the source permissions.
func copyFile(src, dst string) error {
	if src == dst {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
