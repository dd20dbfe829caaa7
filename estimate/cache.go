package estimate

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sneller-labs/mindexer/query"
)

// maxConcurrentEstimates bounds the one place §5 permits parallelism:
// independent sample-side queries over disjoint candidates, fanned out
// with errgroup and a semaphore the same way the teacher's embedding
// warm-up pool bounds concurrent requests.
const maxConcurrentEstimates = 8

// Cache memoizes Estimate/EstimateKeyCount results keyed by structural
// Query equality (§4.3's "the Scorer memoizes results... to avoid
// repeated sample passes"), with compute-once semantics per key so
// concurrent callers never race the same sample pass twice.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	done  bool
	value float64
	err   error
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

func (c *Cache) entryFor(key string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// getOrCompute runs compute at most once per key; concurrent callers for
// the same key block on the entry's own lock rather than the cache's.
func (c *Cache) getOrCompute(key string, compute func() (float64, error)) (float64, error) {
	e := c.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.done {
		e.value, e.err = compute()
		e.done = true
	}
	return e.value, e.err
}

// CachedEstimator wraps an Estimator with a Cache, keyed by §9's
// structural-and-stable Query.Key().
type CachedEstimator struct {
	est   *Estimator
	cache *Cache
}

// NewCached returns a CachedEstimator over est, sharing cache.
func NewCached(est *Estimator, cache *Cache) *CachedEstimator {
	return &CachedEstimator{est: est, cache: cache}
}

func (c *CachedEstimator) Estimate(ctx context.Context, q query.Query) (float64, error) {
	return c.cache.getOrCompute("q:"+q.Key(), func() (float64, error) {
		return c.est.Estimate(ctx, q)
	})
}

func (c *CachedEstimator) EstimateKeyCount(ctx context.Context, ekq query.Query) (float64, error) {
	return c.cache.getOrCompute("k:"+ekq.Key(), func() (float64, error) {
		return c.est.EstimateKeyCount(ctx, ekq)
	})
}

// BatchEstimate resolves Estimate for every query in qs concurrently,
// bounded by maxConcurrentEstimates, and returns results in the same
// order as qs. Safe to call with overlapping or repeated queries: the
// underlying Cache deduplicates identical keys to a single sample pass.
func (c *CachedEstimator) BatchEstimate(ctx context.Context, qs []query.Query) ([]float64, error) {
	out := make([]float64, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxConcurrentEstimates)
	for i, q := range qs {
		i, q := i, q
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			v, err := c.Estimate(gctx, q)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
