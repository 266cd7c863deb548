// Package cache provides the snapshot cache injected into the weather
// aggregator. The composing application owns the instance, so lifetime and
// memory bounds are explicit rather than hidden in package state.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
)

// LRU is a thread-safe least-recently-used cache for weather snapshots with
// an optional time-to-live. A TTL of 0 disables expiry entirely, making the
// cache a pure memoization table bounded only by entry count.
type LRU struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	key      string
	value    domain.WeatherData
	storedAt time.Time
	prev     *entry
	next     *entry
}

// New creates an LRU cache. maxEntries must be positive; ttl of 0 means
// entries never expire.
func New(maxEntries int, ttl time.Duration) *LRU {
	return NewWithClock(maxEntries, ttl, clockwork.NewRealClock())
}

// NewWithClock creates an LRU cache with an injected time source so tests
// can advance time past the TTL.
func NewWithClock(maxEntries int, ttl time.Duration, clock clockwork.Clock) *LRU {
	return &LRU{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

// Get returns the snapshot stored under key, if present and unexpired.
// Expired entries are removed on access.
func (c *LRU) Get(key string) (domain.WeatherData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.WeatherData{}, false
	}
	if c.ttl > 0 && c.clock.Now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, e.key)
		c.remove(e)
		return domain.WeatherData{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Put stores a snapshot under key, evicting the least-recently-used entry
// when the cache is full.
func (c *LRU) Put(key string, value domain.WeatherData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = c.clock.Now()
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, storedAt: c.clock.Now()}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len reports the number of cached entries, including any not yet
// lazily expired.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *LRU) addToFront(e *entry) {
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

func (c *LRU) remove(e *entry) {
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

func (c *LRU) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
