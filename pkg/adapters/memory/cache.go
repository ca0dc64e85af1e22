package memory

import (
	"context"
	"sync"

	"github.com/aretw0/svgo/pkg/domain"
)

// DefaultCapacity bounds a Cache created without WithCapacity.
const DefaultCapacity = 1024

// Cache implements ports.ResultCache in memory. When full, the oldest
// entry is evicted.
// Safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	data     map[string]string
	order    []string
	capacity int
}

type Option func(*Cache)

// WithCapacity sets the maximum number of entries.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewCache creates a new in-memory cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		data:     make(map[string]string),
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves an entry.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return data, nil
}

// Set stores an entry, evicting the oldest one when the cache is full.
func (c *Cache) Set(ctx context.Context, key, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists {
		for len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.data, oldest)
		}
		c.order = append(c.order, key)
	}
	c.data[key] = data
	return nil
}

// Delete removes an entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; !ok {
		return nil
	}
	delete(c.data, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
