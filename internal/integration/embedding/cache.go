package embedding

import (
	"context"
	"time"

	"github.com/futig/ticket-classifier/internal/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
)

// Embedder converts text into a vector, reporting absence on failure
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, bool)
}

// CachedEmbedder memoizes successful embeddings by exact text.
// Failures are never cached.
type CachedEmbedder struct {
	inner Embedder
	cache *gocache.Cache
}

func NewCachedEmbedder(inner Embedder, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, bool) {
	if cached, ok := c.cache.Get(text); ok {
		metrics.EmbeddingRequestsTotal.WithLabelValues("cache_hit").Inc()
		ctxzap.Debug(ctx, "embedding served from cache")
		return cached.([]float32), true
	}

	vector, ok := c.inner.Embed(ctx, text)
	if !ok {
		return nil, false
	}

	c.cache.SetDefault(text, vector)
	return vector, true
}

func (c *CachedEmbedder) Len() int {
	return c.cache.ItemCount()
}
