package snapshots

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pricecomparator/price-service/internal/storage"
)

// parseCache keeps parsed rows per file. An entry is valid while the file's size and
// modification time are unchanged. Concurrent misses for the same key share one parse.
type parseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	value   any
}

func newParseCache() *parseCache {
	return &parseCache{entries: make(map[string]cacheEntry)}
}

func (c *parseCache) get(info *storage.FileInfo) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[info.Key]
	if !ok || e.size != info.Size || !e.modTime.Equal(info.ModifiedAt) {
		return nil, false
	}
	return e.value, true
}

func (c *parseCache) put(info *storage.FileInfo, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[info.Key] = cacheEntry{size: info.Size, modTime: info.ModifiedAt, value: value}
}

// size returns the number of cached files
func (c *parseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
