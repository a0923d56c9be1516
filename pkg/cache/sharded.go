// Package cache provides a sharded LRU used to memoize stems.
package cache

import (
	"container/list"
	"sync"
)

// Sharded is an LRU cache partitioned into independently locked shards.
type Sharded[V any] struct {
	shards    []*shard[V]
	shardMask uint32
	capacity  int
}

type shard[V any] struct {
	mu        sync.Mutex
	items     map[string]*list.Element
	lru       *list.List
	capacity  int
	hits      uint64
	misses    uint64
	evictions uint64
}

type entry[V any] struct {
	key   string
	value V
}

// Stats summarizes cache usage across all shards.
type Stats struct {
	Capacity  int     `json:"capacity"`
	Shards    int     `json:"shards"`
	Size      int     `json:"size"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// NewSharded creates a cache holding about capacity entries. shardCount is
// rounded up to a power of two.
func NewSharded[V any](capacity int, shardCount uint32) *Sharded[V] {
	shardCount = nextPowerOfTwo(shardCount)

	perShard := capacity / int(shardCount)
	if perShard == 0 {
		perShard = 1
	}

	shards := make([]*shard[V], shardCount)
	for i := range shards {
		shards[i] = &shard[V]{
			items:    make(map[string]*list.Element),
			lru:      list.New(),
			capacity: perShard,
		}
	}

	return &Sharded[V]{
		shards:    shards,
		shardMask: shardCount - 1,
		capacity:  capacity,
	}
}

func (c *Sharded[V]) shardFor(key string) *shard[V] {
	return c.shards[fnv32(key)&c.shardMask]
}

// Get returns the cached value for key and marks it recently used.
func (c *Sharded[V]) Get(key string) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		s.misses++
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(el)
	s.hits++
	return el.Value.(*entry[V]).value, true
}

// Put stores value under key, evicting the least recently used entry of the
// shard when it is full.
func (c *Sharded[V]) Put(key string, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		el.Value.(*entry[V]).value = value
		s.lru.MoveToFront(el)
		return
	}

	s.items[key] = s.lru.PushFront(&entry[V]{key: key, value: value})
	if s.lru.Len() > s.capacity {
		oldest := s.lru.Back()
		s.lru.Remove(oldest)
		delete(s.items, oldest.Value.(*entry[V]).key)
		s.evictions++
	}
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. fn runs without the shard lock held.
func (c *Sharded[V]) GetOrCompute(key string, fn func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := fn()
	c.Put(key, v)
	return v
}

// Clear drops every entry. Counters are kept.
func (c *Sharded[V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.items = make(map[string]*list.Element)
		s.lru.Init()
		s.mu.Unlock()
	}
}

// Len returns the number of cached entries.
func (c *Sharded[V]) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += len(s.items)
		s.mu.Unlock()
	}
	return n
}

// Stats returns aggregated hit, miss and eviction counts.
func (c *Sharded[V]) Stats() Stats {
	st := Stats{Capacity: c.capacity, Shards: len(c.shards)}
	for _, s := range c.shards {
		s.mu.Lock()
		st.Hits += s.hits
		st.Misses += s.misses
		st.Evictions += s.evictions
		st.Size += len(s.items)
		s.mu.Unlock()
	}
	if total := st.Hits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits) / float64(total) * 100
	}
	return st
}

// fnv32 is FNV-1 over the key bytes
func fnv32(key string) uint32 {
	hash := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		hash *= 16777619
		hash ^= uint32(key[i])
	}
	return hash
}

func nextPowerOfTwo(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}
