package embed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/moneta/internal/cache"
)

// CachedEmbedder wraps another embedder with the layered cache so the
// same text is only embedded once. The verifier re-queries the store
// with claim text, so cache hits are common within a single request.
type CachedEmbedder struct {
	inner Embedder
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedEmbedder wraps inner with c. A nil cache disables caching.
func NewCachedEmbedder(inner Embedder, c cache.Cache, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: c, ttl: ttl}
}

// Embed returns a cached vector when available, otherwise delegates
// and stores the result. Cache failures are ignored; the embedding
// still succeeds.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	if e.cache == nil {
		return e.inner.Embed(ctx, text)
	}

	key := cache.Key("embed:" + text)
	if data, found := e.cache.Get(key); found {
		var vec Vector
		if err := json.Unmarshal(data, &vec); err == nil && len(vec) == e.inner.Dimensions() {
			return vec, nil
		}
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		_ = e.cache.Set(key, data, e.ttl)
	}
	return vec, nil
}

// Dimensions returns the inner embedder's vector length.
func (e *CachedEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}
