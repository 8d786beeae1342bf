package predictor

import (
	"context"
	"fmt"
	"sync"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
	"github.com/citywatch/crime-prediction-dashboard/internal/observability"
)

// Fetcher is the outbound prediction call. *Client and *CachedClient both
// satisfy it.
type Fetcher interface {
	Predict(ctx context.Context, timestamp string, topN int) ([]domain.PredictionRecord, error)
}

// CachedClient wraps a Fetcher with an in-memory LRU cache keyed by the
// query. Identical queries within the cache window skip the upstream call.
type CachedClient struct {
	inner   Fetcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator around a prediction fetcher.
func NewCachedClient(inner Fetcher, maxEntries int, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedClient) Predict(ctx context.Context, timestamp string, topN int) ([]domain.PredictionRecord, error) {
	key := fmt.Sprintf("%s|%d", timestamp, topN)
	if records, ok := c.cache.get(key); ok {
		c.metrics.PredictorCache.WithLabelValues("hit").Inc()
		return records, nil
	}
	c.metrics.PredictorCache.WithLabelValues("miss").Inc()

	records, err := c.inner.Predict(ctx, timestamp, topN)
	if err != nil {
		return records, err
	}
	// Only cache non-empty results so a transient empty response can be retried.
	if len(records) > 0 {
		c.cache.put(key, records)
	}
	return records, nil
}

// lruCache is a simple thread-safe LRU cache for prediction record lists.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []domain.PredictionRecord
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]domain.PredictionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []domain.PredictionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
