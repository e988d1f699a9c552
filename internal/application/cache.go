package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/ports"
)

// CacheStats summarizes the transcript cache.
type CacheStats struct {
	Entries int
	Bytes   int64
}

// CacheService backs the cache subcommands. Batches read and write the
// store directly.
type CacheService struct {
	store ports.CacheStore
}

func NewCacheService(store ports.CacheStore) *CacheService {
	return &CacheService{store: store}
}

func (s *CacheService) Stats(ctx context.Context) (*CacheStats, error) {
	entries, bytes, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{Entries: entries, Bytes: bytes}, nil
}

// Lookup returns the cached transcript for url. Missing and stale entries
// yield (nil, nil); only store failures are errors.
func (s *CacheService) Lookup(ctx context.Context, url string) (*ports.CachedItem, error) {
	item, err := s.store.Get(ctx, strings.TrimSpace(url))
	switch {
	case errors.Is(err, domain.ErrCacheMiss), errors.Is(err, domain.ErrCacheExpired):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	return item, nil
}

// Forget drops the entries of the given URLs. Blank and repeated URLs are
// skipped; the result counts the URLs processed.
func (s *CacheService) Forget(ctx context.Context, urls []string) (int, error) {
	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		url := strings.TrimSpace(raw)
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		if err := s.store.Delete(ctx, url); err != nil {
			return len(seen), fmt.Errorf("failed to remove %s from cache: %w", url, err)
		}
		seen[url] = struct{}{}
	}
	return len(seen), nil
}

func (s *CacheService) CleanExpired(ctx context.Context) (int, error) {
	return s.store.CleanExpired(ctx)
}

func (s *CacheService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
