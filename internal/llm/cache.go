package llm

import (
	"strings"
	"sync"
	"time"

	"github.com/duesflow/duesflow/internal/service"
)

// cacheEntry represents a cached classification suggestion.
type cacheEntry struct {
	expiry     time.Time
	suggestion service.Suggestion
}

// suggestionCache provides thread-safe caching for suggestions keyed by
// normalized description, so re-imports of the same feed do not repeat
// identical API calls.
type suggestionCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newSuggestionCache creates a new cache with the specified TTL.
func newSuggestionCache(ttl time.Duration) *suggestionCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &suggestionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

func cacheKey(description string) string {
	return strings.ToLower(strings.Join(strings.Fields(description), " "))
}

// get retrieves a suggestion if it exists and hasn't expired.
func (c *suggestionCache) get(description string) (service.Suggestion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[cacheKey(description)]
	if !exists {
		return service.Suggestion{}, false
	}

	if time.Now().After(entry.expiry) {
		return service.Suggestion{}, false
	}

	return entry.suggestion, true
}

// set stores a suggestion in the cache.
func (c *suggestionCache) set(description string, suggestion service.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(description)] = cacheEntry{
		suggestion: suggestion,
		expiry:     time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *suggestionCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// stop terminates the cleanup goroutine.
func (c *suggestionCache) stop() {
	close(c.stopCh)
}
