package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/ports"
)

const metaFileName = "meta.json"

// FileCache stores one meta.json per source URL under baseDir.
type FileCache struct {
	fs      afero.Fs
	baseDir string
	now     func() time.Time
}

// NewFileCache creates a cache rooted at baseDir on fs.
func NewFileCache(fsys afero.Fs, baseDir string) *FileCache {
	return &FileCache{
		fs:      fsys,
		baseDir: baseDir,
		now:     time.Now,
	}
}

// NewOsFileCache creates a cache on the real filesystem.
func NewOsFileCache(baseDir string) *FileCache {
	return NewFileCache(afero.NewOsFs(), baseDir)
}

// Key derives the directory name for a source URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:12])
}

func (c *FileCache) entryDir(key string) string {
	return filepath.Join(c.baseDir, key)
}

func (c *FileCache) metaPath(key string) string {
	return filepath.Join(c.entryDir(key), metaFileName)
}

func (c *FileCache) Get(ctx context.Context, url string) (*ports.CachedItem, error) {
	item, err := c.read(Key(url))
	if err != nil {
		return nil, err
	}
	// Guard against hash collisions
	if item.URL != url {
		return nil, domain.ErrCacheMiss
	}
	return item, nil
}

func (c *FileCache) read(key string) (*ports.CachedItem, error) {
	data, err := afero.ReadFile(c.fs, c.metaPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	var item ports.CachedItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}

	if c.now().After(item.ExpiresAt) {
		return nil, domain.ErrCacheExpired
	}
	return &item, nil
}

func (c *FileCache) Set(ctx context.Context, url string, item *ports.CachedItem) error {
	key := Key(url)
	if err := c.fs.MkdirAll(c.entryDir(key), 0755); err != nil {
		return err
	}

	stored := *item
	stored.URL = url
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}

	return afero.WriteFile(c.fs, c.metaPath(key), data, 0644)
}

func (c *FileCache) Delete(ctx context.Context, url string) error {
	return c.fs.RemoveAll(c.entryDir(Key(url)))
}

func (c *FileCache) keys() ([]string, error) {
	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			keys = append(keys, entry.Name())
		}
	}
	return keys, nil
}

func (c *FileCache) CleanExpired(ctx context.Context) (int, error) {
	keys, err := c.keys()
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return cleaned, err
		}
		if _, err := c.read(key); errors.Is(err, domain.ErrCacheExpired) {
			if err := c.fs.RemoveAll(c.entryDir(key)); err == nil {
				cleaned++
			}
		}
	}

	return cleaned, nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	keys, err := c.keys()
	if err != nil {
		return err
	}

	for _, key := range keys {
		_ = c.fs.RemoveAll(c.entryDir(key))
	}

	return nil
}

func (c *FileCache) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	keys, err := c.keys()
	if err != nil {
		return 0, 0, err
	}

	for _, key := range keys {
		itemCount++
		_ = afero.Walk(c.fs, c.entryDir(key), func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				totalSize += info.Size()
			}
			return nil
		})
	}

	return itemCount, totalSize, nil
}

var _ ports.CacheStore = (*FileCache)(nil)
