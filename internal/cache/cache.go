package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	ExpiryDefault = 30 * time.Minute

	// ExpiryShareLookup bounds how long a revoked share token can keep
	// resolving from cache.
	ExpiryShareLookup = 5 * time.Minute
)

// Cache is a simple typed-value cache.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiry time.Duration)
	Get(ctx context.Context, key string) (interface{}, bool)
	Delete(ctx context.Context, key string)
}

// InMemoryCache implements Cache over patrickmn/go-cache.
type InMemoryCache struct {
	store *gocache.Cache
}

var inMemoryCache *InMemoryCache

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		store: gocache.New(ExpiryDefault, 10*time.Minute),
	}
}

// InitializeInMemoryCache initializes the global in-memory cache instance
func InitializeInMemoryCache() {
	if inMemoryCache == nil {
		inMemoryCache = NewInMemoryCache()
	}
}

// GetInMemoryCache returns the global in-memory cache instance
func GetInMemoryCache() *InMemoryCache {
	if inMemoryCache == nil {
		InitializeInMemoryCache()
	}
	return inMemoryCache
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiry time.Duration) {
	if expiry <= 0 {
		expiry = ExpiryDefault
	}
	c.store.Set(key, value, expiry)
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.store.Delete(key)
}

// UnmarshalCacheValue attempts to convert a cache value to the specified
// type. Returns the typed value and true if successful.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}
	if typed, ok := value.(*T); ok {
		return typed, true
	}
	if typed, ok := value.(T); ok {
		return &typed, true
	}
	return nil, false
}
