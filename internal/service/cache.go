package service

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
)

// Cached wraps a Service with a TTL response cache keyed by resolved feed
// query. Detail, favorites, and readiness pass through to the embedded
// service untouched.
type Cached struct {
	*Service
	ttl     time.Duration
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	groups    []domain.DateGroup
	expiresAt time.Time
}

// NewCached creates a response cache around a service. A nil clock selects
// the wall clock.
func NewCached(inner *Service, ttl time.Duration, clk clockwork.Clock) *Cached {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Cached{
		Service: inner,
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]cacheEntry),
	}
}

// Feed serves from cache when a fresh entry exists for the resolved query,
// fetching and storing otherwise. Invalid queries never touch the cache.
func (c *Cached) Feed(ctx context.Context, q FeedQuery) ([]domain.DateGroup, error) {
	groups, err := c.feedCached(ctx, q)
	c.metrics.FeedRequests.WithLabelValues(outcomeFor(err)).Inc()
	return groups, err
}

func (c *Cached) feedCached(ctx context.Context, q FeedQuery) ([]domain.DateGroup, error) {
	rq, err := c.resolve(q)
	if err != nil {
		return nil, err
	}
	return c.feedResolvedCached(ctx, rq)
}

// ExtendFeed merges a cached-or-fetched incoming range into the held groups.
func (c *Cached) ExtendFeed(ctx context.Context, held []domain.DateGroup, q FeedQuery) ([]domain.DateGroup, error) {
	merged, err := c.extendFeedCached(ctx, held, q)
	c.metrics.FeedRequests.WithLabelValues(outcomeFor(err)).Inc()
	return merged, err
}

func (c *Cached) extendFeedCached(ctx context.Context, held []domain.DateGroup, q FeedQuery) ([]domain.DateGroup, error) {
	rq, err := c.resolve(q)
	if err != nil {
		return nil, err
	}
	incoming, err := c.feedResolvedCached(ctx, rq)
	if err != nil {
		return nil, err
	}
	return c.merge(held, incoming, rq.Sort), nil
}

// feedResolvedCached is feedResolved with the cache in front. Only successful
// aggregations are stored so upstream failures can be retried immediately.
func (c *Cached) feedResolvedCached(ctx context.Context, rq resolvedQuery) ([]domain.DateGroup, error) {
	key := rq.cacheKey()
	if groups, ok := c.lookup(key); ok {
		return groups, nil
	}
	groups, err := c.Service.feedResolved(ctx, rq)
	if err != nil {
		return nil, err
	}
	c.put(key, groups)
	return groups, nil
}

// lookup returns the cached groups for the key if the entry is still fresh.
// Stale entries stay in place until the next put overwrites them.
func (c *Cached) lookup(key string) ([]domain.DateGroup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if c.clock.Now().After(e.expiresAt) {
		c.metrics.CacheLookups.WithLabelValues("stale").Inc()
		return nil, false
	}
	c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return e.groups, true
}

func (c *Cached) put(key string, groups []domain.DateGroup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{groups: groups, expiresAt: c.clock.Now().Add(c.ttl)}
}
