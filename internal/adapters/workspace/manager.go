package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/devbush/tubescribe/internal/domain"
)

// Manager allocates batch and task directories under a base directory.
type Manager struct {
	fs   afero.Fs
	base string
}

// NewManager creates a workspace manager rooted at base.
func NewManager(fs afero.Fs, base string) *Manager {
	return &Manager{fs: fs, base: base}
}

// NewOsManager creates a workspace manager on the real filesystem.
func NewOsManager(base string) *Manager {
	return NewManager(afero.NewOsFs(), base)
}

// TaskDirName returns the directory name for the task at index.
func TaskDirName(index int) string {
	return fmt.Sprintf("task-%04d", index+1)
}

// CreateBatchRoot creates <base>/<batchID>.
func (m *Manager) CreateBatchRoot(batchID string) (string, error) {
	name := sanitizeID(batchID)
	if name == "" {
		return "", domain.NewTaskError(domain.KindFilesystem, fmt.Sprintf("invalid batch id %q", batchID), nil)
	}

	root := filepath.Join(m.base, name)
	if err := m.fs.MkdirAll(root, 0755); err != nil {
		return "", domain.NewTaskError(domain.KindFilesystem,
			fmt.Sprintf("failed to create batch directory %s", root), err).WithDetail(err.Error())
	}
	return root, nil
}

// CreateTaskDir creates <batchRoot>/task-NNNN for the task at index.
func (m *Manager) CreateTaskDir(batchRoot string, index int) (string, error) {
	dir := filepath.Join(batchRoot, TaskDirName(index))
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return "", domain.NewTaskError(domain.KindFilesystem,
			fmt.Sprintf("failed to create task directory %s", dir), err).WithDetail(err.Error())
	}
	return dir, nil
}

// RemoveTaskDir deletes a task directory and its contents.
func (m *Manager) RemoveTaskDir(dir string) error {
	if err := m.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}

// sanitizeID keeps batch ids from escaping the base directory.
func sanitizeID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, id)
	if id == "." || id == ".." {
		return ""
	}
	return id
}
