// Package service contains the business logic for the cartonization service.
package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/metrics"
	"github.com/guttosm/cartonization-service/internal/service/cache"
	"github.com/zeebo/xxh3"
)

// DefaultSolutionTTL is how long a packing solution stays cached.
const DefaultSolutionTTL = 24 * time.Hour

// Clock returns the current time.
type Clock func() time.Time

// CacheOption configures a ShardedCache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	clock           Clock
	cleanupInterval time.Duration
}

// WithClock injects the time source used for expiration.
func WithClock(clock Clock) CacheOption {
	return func(c *cacheConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCleanupInterval sets how often expired and stale entries are swept.
func WithCleanupInterval(d time.Duration) CacheOption {
	return func(c *cacheConfig) {
		if d > 0 {
			c.cleanupInterval = d
		}
	}
}

// ShardedCache is a solution cache split into independently locked shards.
// Every shard shares one catalog version floor, so invalidating a catalog
// version is a single atomic store rather than a scan over keys.
type ShardedCache struct {
	shards    []*ttlCache
	numShards int
	shardMask uint64
	floor     *atomic.Int64
}

var _ cache.CacheWithMetrics = (*ShardedCache)(nil)

// NewShardedCache creates a new sharded cache with the specified total capacity,
// TTL, and number of shards. numShards is rounded up to a power of 2.
func NewShardedCache(capacity int, ttl time.Duration, numShards int, opts ...CacheOption) *ShardedCache {
	cfg := cacheConfig{clock: time.Now, cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}
	if ttl <= 0 {
		ttl = DefaultSolutionTTL
	}

	if numShards <= 0 {
		numShards = 16
	}
	n := 1
	for n < numShards {
		n *= 2
	}
	numShards = n

	perShardCapacity := capacity / numShards
	if perShardCapacity < 1 {
		perShardCapacity = 1
	}

	floor := &atomic.Int64{}
	shards := make([]*ttlCache, numShards)
	for i := range shards {
		shards[i] = newTTLCache(perShardCapacity, ttl, floor, cfg)
	}

	return &ShardedCache{
		shards:    shards,
		numShards: numShards,
		shardMask: uint64(numShards - 1),
		floor:     floor,
	}
}

func (sc *ShardedCache) getShard(key string) *ttlCache {
	return sc.shards[xxh3.HashString(key)&sc.shardMask]
}

// Get retrieves a solution from the appropriate shard.
func (sc *ShardedCache) Get(key string) (*model.PackingSolution, bool) {
	return sc.getShard(key).Get(key)
}

// Set stores a solution computed against catalogVersion.
func (sc *ShardedCache) Set(key string, catalogVersion int64, value *model.PackingSolution) {
	sc.getShard(key).Set(key, catalogVersion, value)
}

// Invalidate removes a key from the appropriate shard.
func (sc *ShardedCache) Invalidate(key string) {
	sc.getShard(key).Invalidate(key)
}

// InvalidateBefore raises the version floor. Entries below it become misses
// and are removed lazily on access or by the periodic sweep.
func (sc *ShardedCache) InvalidateBefore(version int64) {
	for {
		cur := sc.floor.Load()
		if version <= cur {
			return
		}
		if sc.floor.CompareAndSwap(cur, version) {
			metrics.RecordCacheOperation("invalidate", "version")
			return
		}
	}
}

// Clear removes all entries from all shards.
func (sc *ShardedCache) Clear() {
	for _, shard := range sc.shards {
		shard.Clear()
	}
}

// Sweep removes expired and stale entries from every shard immediately.
func (sc *ShardedCache) Sweep() {
	for _, shard := range sc.shards {
		shard.cleanup()
	}
}

// Stop gracefully shuts down all shards.
func (sc *ShardedCache) Stop() {
	for _, shard := range sc.shards {
		shard.Stop()
	}
}

// Metrics returns aggregated metrics from all shards.
func (sc *ShardedCache) Metrics() cache.Metrics {
	total := cache.Metrics{MinVersion: sc.floor.Load()}
	for _, shard := range sc.shards {
		m := shard.Metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	metrics.UpdateCacheMetrics(total.Size, total.Capacity)
	return total
}

// ttlCache is one LRU shard with TTL expiration and a shared version floor.
type ttlCache struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	floor     *atomic.Int64
	clock     Clock
	interval  time.Duration
	items     map[string]*cacheEntry
	head      *cacheEntry
	tail      *cacheEntry
	stopCh    chan struct{}
	stopOnce  sync.Once
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	key       string
	version   int64
	value     *model.PackingSolution
	expiresAt time.Time
	prev      *cacheEntry
	next      *cacheEntry
}

func newTTLCache(capacity int, ttl time.Duration, floor *atomic.Int64, cfg cacheConfig) *ttlCache {
	c := &ttlCache{
		capacity: capacity,
		ttl:      ttl,
		floor:    floor,
		clock:    cfg.clock,
		interval: cfg.cleanupInterval,
		items:    make(map[string]*cacheEntry, capacity),
		stopCh:   make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Stop shuts down the background sweeper. It is safe to call more than once.
func (c *ttlCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Metrics returns current shard metrics.
func (c *ttlCache) Metrics() cache.Metrics {
	c.mu.Lock()
	size := len(c.items)
	c.mu.Unlock()

	return cache.Metrics{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      size,
		Capacity:  c.capacity,
	}
}

// Get returns a live entry and marks it most recently used.
func (c *ttlCache) Get(key string) (*model.PackingSolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}

	if entry.version < c.floor.Load() {
		c.removeEntry(entry)
		c.misses.Add(1)
		metrics.RecordCacheOperation("get", "stale")
		return nil, false
	}

	if c.clock().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.misses.Add(1)
		metrics.RecordCacheOperation("get", "expired")
		return nil, false
	}

	c.moveToFront(entry)
	c.hits.Add(1)
	metrics.RecordCacheOperation("get", "hit")
	return entry.value, true
}

// Set adds or replaces an entry. Values below the version floor are ignored.
func (c *ttlCache) Set(key string, version int64, value *model.PackingSolution) {
	if version < c.floor.Load() {
		metrics.RecordCacheOperation("set", "stale")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock().Add(c.ttl)
	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.version = version
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &cacheEntry{key: key, version: version, value: value, expiresAt: expiresAt}
	c.items[key] = entry
	c.addToFront(entry)

	if len(c.items) > c.capacity {
		c.removeTail()
		c.evictions.Add(1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
}

func (c *ttlCache) startCleanup() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// cleanup removes expired entries and entries below the version floor.
func (c *ttlCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentTime := c.clock()
	floor := c.floor.Load()
	for _, entry := range c.items {
		if entry.version < floor || currentTime.After(entry.expiresAt) {
			c.removeEntry(entry)
		}
	}
}

func (c *ttlCache) removeEntry(entry *cacheEntry) {
	delete(c.items, entry.key)
	c.remove(entry)
}

func (c *ttlCache) moveToFront(entry *cacheEntry) {
	if entry == c.head {
		return
	}
	c.remove(entry)
	c.addToFront(entry)
}

func (c *ttlCache) addToFront(entry *cacheEntry) {
	entry.prev = nil
	entry.next = c.head
	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry
	if c.tail == nil {
		c.tail = entry
	}
}

func (c *ttlCache) remove(entry *cacheEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
	entry.prev, entry.next = nil, nil
}

func (c *ttlCache) removeTail() {
	if c.tail == nil {
		return
	}
	delete(c.items, c.tail.key)
	c.remove(c.tail)
}

// Invalidate removes a specific key from the shard.
func (c *ttlCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.removeEntry(entry)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

// Clear removes all entries from the shard.
func (c *ttlCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheEntry, c.capacity)
	c.head = nil
	c.tail = nil

	metrics.RecordCacheOperation("clear", "success")
}
