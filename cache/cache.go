package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     string
	expiredAt time.Time
}

// Cache is a concurrency-safe string store with optional per-key lifetime.
type Cache struct {
	store map[string]entry
	lock  *sync.RWMutex
	now   func() time.Time
}

func New() *Cache {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Cache {
	return &Cache{
		store: map[string]entry{},
		lock:  &sync.RWMutex{},
		now:   now,
	}
}

func (c *Cache) Get(key string) (string, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	item, ok := c.store[key]
	if !ok {
		return "", false
	}
	if !item.expiredAt.IsZero() && c.now().After(item.expiredAt) {
		return "", false
	}
	return item.value, true
}

// Set stores value under key. A non-positive lifeTime means the value never expires.
func (c *Cache) Set(key string, value string, lifeTime time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	item := entry{value: value}
	if lifeTime > 0 {
		item.expiredAt = c.now().Add(lifeTime)
	}
	c.store[key] = item
}

func (c *Cache) Delete(key string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.store, key)
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.store {
		if !item.expiredAt.IsZero() && now.After(item.expiredAt) {
			delete(c.store, key)
			removed++
		}
	}
	return removed
}
