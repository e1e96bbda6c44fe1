package observability

import (
	"context"

	"github.com/terra-clan/learnpath/internal/progress"
)

// InstrumentedCache counts hits and misses of a progress cache
type InstrumentedCache struct {
	progress.Cache
	collector *Collector
}

// InstrumentCache wraps cache
func InstrumentCache(cache progress.Cache, c *Collector) *InstrumentedCache {
	return &InstrumentedCache{Cache: cache, collector: c}
}

func (i *InstrumentedCache) Get(ctx context.Context, userID string) (*progress.Snapshot, bool, error) {
	snap, ok, err := i.Cache.Get(ctx, userID)
	if ok {
		i.collector.CacheHits.Inc()
	} else {
		i.collector.CacheMisses.Inc()
	}
	return snap, ok, err
}
