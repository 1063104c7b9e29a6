// internal/embedding/cache.go
package embedding

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// CachedClient memoizes another Client so each distinct text is
// embedded at most once per run. Sentences and chunks recur constantly
// across grounding checks and duplicate detection.
type CachedClient struct {
	inner Client
	cache *gocache.Cache
}

// NewCachedClient wraps inner with a run-lifetime cache.
func NewCachedClient(inner Client) *CachedClient {
	return &CachedClient{
		inner: inner,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Embed returns a cached vector when one exists, delegating to the
// inner client otherwise. Failed lookups are not cached.
func (c *CachedClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if v, ok := c.cache.Get(text); ok {
		return v.([]float64), nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, vec, gocache.NoExpiration)
	return vec, nil
}
