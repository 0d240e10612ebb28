package nominatim

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// CachedClient memoizes successful lookups by rounded coordinate. Failures are
// never cached so a retry always reaches the service.
type CachedClient struct {
	inner Client
	cache *gocache.Cache
}

// NewCachedClient wraps inner with an in-memory cache whose entries expire
// after ttl.
func NewCachedClient(inner Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// coordKey rounds to 7 decimals (~1cm), the precision Nominatim echoes back.
func coordKey(lat, lon float64) string {
	return fmt.Sprintf("%.7f,%.7f", lat, lon)
}

// Reverse returns a cached place or delegates to the wrapped client.
func (c *CachedClient) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	key := coordKey(lat, lon)
	if v, ok := c.cache.Get(key); ok {
		zap.L().Debug("nominatim cache hit", zap.String("key", key))
		place := *v.(*Place)
		return &place, nil
	}

	place, err := c.inner.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	stored := *place
	c.cache.SetDefault(key, &stored)
	return place, nil
}

// Len returns the number of cached entries.
func (c *CachedClient) Len() int {
	return c.cache.ItemCount()
}
