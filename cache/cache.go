// Package cache memoizes consolidated tables per (category, page count).
package cache

import (
	"coinafrique-scraper/models"
	"sync"
	"time"
)

type Key struct {
	Category  string
	PageCount int
}

type entry struct {
	table    models.Table
	storedAt time.Time
}

// Cache holds tables in memory. A zero TTL keeps entries for the life of the
// process. Tables are cloned on the way in and out.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[Key]entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Key]entry),
	}
}

func (c *Cache) Get(key Key) (models.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return models.Table{}, false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return models.Table{}, false
	}
	return e.table.Clone(), true
}

func (c *Cache) Put(key Key, table models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{table: table.Clone(), storedAt: c.now()}
}

// Invalidate drops every entry for one category.
func (c *Cache) Invalidate(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if k.Category == category {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]entry)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
