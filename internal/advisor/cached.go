package advisor

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const defaultCacheTTL = time.Hour

// CachedAdvisor memoizes answers per normalized query.
type CachedAdvisor struct {
	next  Advisor
	cache *ristretto.Cache[string, string]
	ttl   time.Duration
}

// NewCachedAdvisor wraps next with a cache holding up to size answers.
func NewCachedAdvisor(next Advisor, size int64, ttl time.Duration) (*CachedAdvisor, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: size * 10, // number of keys to track frequency of
		MaxCost:     size,
		BufferItems: 64, // number of keys per Get buffer
		// Every answer costs 1, so MaxCost is an entry count.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &CachedAdvisor{next: next, cache: cache, ttl: ttl}, nil
}

// GetAdvice implements Advisor. Errors are not cached.
func (a *CachedAdvisor) GetAdvice(ctx context.Context, query string) (string, error) {
	key := cacheKey(query)
	if answer, ok := a.cache.Get(key); ok {
		return answer, nil
	}

	answer, err := a.next.GetAdvice(ctx, query)
	if err != nil {
		return "", err
	}
	a.cache.SetWithTTL(key, answer, 1, a.ttl)
	return answer, nil
}

// Wait blocks until pending cache writes are applied.
func (a *CachedAdvisor) Wait() {
	a.cache.Wait()
}

// Close stops the cache's background goroutines.
func (a *CachedAdvisor) Close() {
	a.cache.Close()
}

func cacheKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
