package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shelflife/backend/internal/domain"
)

// cacheItem represents a single serialized entry with its expiration
type cacheItem struct {
	Payload    []byte
	Expiration time.Time
}

// pruneInterval is the minimum gap between sweeps triggered by Set
const pruneInterval = time.Minute

// MemoryCache is a thread-safe in-memory cache with TTL support.
// Expired entries are evicted on read, and Set sweeps the whole map at most
// once per pruneInterval.
type MemoryCache struct {
	data      map[string]cacheItem
	mutex     sync.RWMutex
	now       func() time.Time
	lastPrune time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]cacheItem),
		now:  time.Now,
	}
}

// Get decodes the value stored under key into dest
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return domain.ErrCacheMiss
	}

	if c.now().After(item.Expiration) {
		c.evict(key, item.Expiration)
		return domain.ErrCacheMiss
	}

	return json.Unmarshal(item.Payload, dest)
}

// Set stores a value in the cache with TTL.
// Values are serialized to JSON so the memory and redis caches behave the same.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	if now.Sub(c.lastPrune) > pruneInterval {
		c.pruneLocked(now)
	}

	c.data[key] = cacheItem{
		Payload:    payload,
		Expiration: now.Add(ttl),
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}

	return !c.now().After(item.Expiration), nil
}

// evict removes key only if it still holds the expired entry that was read
func (c *MemoryCache) evict(key string, expiration time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if item, ok := c.data[key]; ok && item.Expiration.Equal(expiration) {
		delete(c.data, key)
	}
}

// Prune removes every expired entry and returns how many were dropped
func (c *MemoryCache) Prune() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.pruneLocked(c.now())
}

// pruneLocked drops expired entries; the caller holds the write lock
func (c *MemoryCache) pruneLocked(now time.Time) int {
	c.lastPrune = now
	removed := 0
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

// Close is a no-op; entries simply expire.
func (c *MemoryCache) Close() error {
	return nil
}
