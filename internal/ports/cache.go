package ports

import (
	"context"
	"time"
)

// CachedItem represents a previously recognized transcript for a source URL.
type CachedItem struct {
	URL        string    `json:"url"`
	Transcript string    `json:"transcript"`
	Backend    string    `json:"backend"`    // recognizer that produced the transcript
	Language   string    `json:"language"`   // recognition language, empty when auto-detected
	CreatedAt  time.Time `json:"created_at"` // when this item was cached
	ExpiresAt  time.Time `json:"expires_at"` // when this item should be considered stale
}

// CacheStore handles persistent caching of successful transcripts.
type CacheStore interface {
	// Get retrieves a cached item by source URL, returning nil if not found.
	Get(ctx context.Context, url string) (*CachedItem, error)

	// Set stores an item in the cache.
	Set(ctx context.Context, url string, item *CachedItem) error

	// Delete removes a specific item from the cache.
	Delete(ctx context.Context, url string) error

	// CleanExpired removes all expired items and returns the count removed.
	CleanExpired(ctx context.Context) (int, error)

	// Clear removes all cached items.
	Clear(ctx context.Context) error

	// Stats returns cache statistics: item count and total size in bytes.
	Stats(ctx context.Context) (itemCount int, totalSize int64, err error)
}
