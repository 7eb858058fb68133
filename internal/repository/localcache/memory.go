package localcache

import (
	"context"
	"fmt"
	"sync"

	"creationrights/internal/domain"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
)

// MemoryCache is an in-process LocalCache. It is safe for concurrent use.
// Setting Fail makes every call return a CacheError, which lets callers
// exercise the unavailable-storage path.
type MemoryCache struct {
	mu     sync.Mutex
	values map[string]string
	fail   error
}

var _ catalogRepo.LocalCache = (*MemoryCache)(nil)

// NewMemory returns an empty cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{values: make(map[string]string)}
}

// Fail makes subsequent calls fail with err (nil restores normal behaviour).
func (c *MemoryCache) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = err
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return "", &domain.CacheError{Op: "get", Key: key, Err: c.fail}
	}
	v, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("cache key %q: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return &domain.CacheError{Op: "set", Key: key, Err: c.fail}
	}
	c.values[key] = value
	return nil
}

func (c *MemoryCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return &domain.CacheError{Op: "remove", Key: key, Err: c.fail}
	}
	delete(c.values, key)
	return nil
}

// Len returns how many keys are stored.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}
