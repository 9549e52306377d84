package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/primeops/cache"
)

// StatsSource exposes cache statistics. *cache.MemoryCache satisfies it.
type StatsSource interface {
	Stats() cache.Stats
}

// CacheChecker reports the size of the result cache. The cache has no
// eviction, so the checker turns Degraded once it holds more than
// warnEntries bounds. A warnEntries of zero disables the threshold.
type CacheChecker struct {
	src         StatsSource
	warnEntries int
}

// NewCacheChecker creates a checker over src.
func NewCacheChecker(src StatsSource, warnEntries int) *CacheChecker {
	return &CacheChecker{src: src, warnEntries: max(warnEntries, 0)}
}

func (c *CacheChecker) Name() string { return "cache" }

func (c *CacheChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	st := c.src.Stats()
	details := map[string]any{
		"entries":      st.Entries,
		"hits":         st.Hits,
		"misses":       st.Misses,
		"writes":       st.Writes,
		"hit_ratio":    st.HitRatio(),
		"warn_entries": c.warnEntries,
	}

	if c.warnEntries > 0 && st.Entries > c.warnEntries {
		return Degraded(fmt.Sprintf("cache holds %d bounds, above %d", st.Entries, c.warnEntries)).
			WithDetails(details)
	}
	return Healthy(fmt.Sprintf("cache holds %d bounds", st.Entries)).WithDetails(details)
}

var _ StatsSource = (*cache.MemoryCache)(nil)
