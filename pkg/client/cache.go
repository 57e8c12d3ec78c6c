package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long a cached result is served without refetching.
const DefaultStaleTime = 5 * time.Minute

const (
	KindList   = "list"
	KindLookup = "lookup"
)

// Key identifies one cached query.
type Key struct {
	Entity  string
	Kind    string
	Page    int
	PerPage int
	Search  string
	Filter  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d/%d/%q/%s", k.Entity, k.Kind, k.Page, k.PerPage, k.Search, k.Filter)
}

// Fetcher loads the value for a key.
type Fetcher func(ctx context.Context) (interface{}, error)

type entry struct {
	value     interface{}
	fetchedAt time.Time
}

// Cache is a query cache with stale-while-revalidate and per-entity invalidation.
// Concurrent fetches of one key share a single request.
type Cache struct {
	mu             sync.Mutex
	entries        map[Key]entry
	gens           map[string]uint64
	epoch          uint64
	staleTime      time.Duration
	refreshTimeout time.Duration
	group          singleflight.Group
	refreshing     sync.WaitGroup
	now            func() time.Time
	log            *zap.Logger
}

func NewCache(staleTime time.Duration, log *zap.Logger) *Cache {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		entries:        map[Key]entry{},
		gens:           map[string]uint64{},
		staleTime:      staleTime,
		refreshTimeout: 30 * time.Second,
		now:            time.Now,
		log:            log,
	}
}

// Get serves a fresh entry directly, a stale entry immediately while refreshing it
// in the background, and fetches on a miss.
func (c *Cache) Get(ctx context.Context, key Key, fetch Fetcher) (interface{}, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	gen := c.genLocked(key.Entity)
	c.mu.Unlock()

	if ok {
		if c.now().Sub(e.fetchedAt) >= c.staleTime {
			c.revalidate(key, gen, fetch)
		}
		return e.value, nil
	}

	v, err, _ := c.group.Do(flightKey(key, gen), func() (interface{}, error) {
		return c.fetch(ctx, key, gen, fetch)
	})
	return v, err
}

// Peek returns the cached value for key without fetching.
func (c *Cache) Peek(key Key) (value interface{}, fresh bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.value, c.now().Sub(e.fetchedAt) < c.staleTime, true
}

// Invalidate drops every entry of the given entities whatever their page or search.
// Fetches already in flight for them are not stored.
func (c *Cache) Invalidate(entities ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	drop := map[string]bool{}
	for _, e := range entities {
		drop[e] = true
		c.gens[e]++
	}
	for k := range c.entries {
		if drop[k.Entity] {
			delete(c.entries, k)
		}
	}
}

// Clear drops everything, including results of fetches still in flight.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = map[Key]entry{}
}

// Len is the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Wait blocks until background refreshes started so far have finished.
func (c *Cache) Wait() {
	c.refreshing.Wait()
}

func (c *Cache) revalidate(key Key, gen uint64, fetch Fetcher) {
	c.refreshing.Add(1)
	go func() {
		defer c.refreshing.Done()
		_, err, _ := c.group.Do(flightKey(key, gen), func() (interface{}, error) {
			ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
			defer cancel()
			return c.fetch(ctx, key, gen, fetch)
		})
		if err != nil {
			c.log.Warn("background refresh failed", zap.String("key", key.String()), zap.Error(err))
		}
	}()
}

func (c *Cache) fetch(ctx context.Context, key Key, gen uint64, fetch Fetcher) (interface{}, error) {
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.genLocked(key.Entity) == gen {
		c.entries[key] = entry{value: v, fetchedAt: c.now()}
	}
	c.mu.Unlock()
	return v, nil
}

// genLocked is the entity's generation. Both terms only grow, so any
// Invalidate or Clear after a fetch started changes it.
func (c *Cache) genLocked(entity string) uint64 {
	return c.epoch + c.gens[entity]
}

func flightKey(key Key, gen uint64) string {
	return fmt.Sprintf("%s#%d", key, gen)
}
