package api

import (
	"sync"
	"time"

	"github.com/diogo/teamlens/internal/models"
)

type cacheEntry struct {
	user    models.User
	fetched time.Time
}

// EmployeeCache keeps recently fetched user records for a fixed TTL.
// A zero TTL disables it: Put is a no-op and Get always misses.
type EmployeeCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewEmployeeCache creates a cache with the given TTL
func NewEmployeeCache(ttl time.Duration) *EmployeeCache {
	return &EmployeeCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// TTL returns the configured lifetime of an entry
func (c *EmployeeCache) TTL() time.Duration {
	return c.ttl
}

// Get returns a copy of the cached record if it is still fresh
func (c *EmployeeCache) Get(userID string) (*models.User, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.fetched) >= c.ttl {
		c.Invalidate(userID)
		return nil, false
	}

	user := entry.user
	return &user, true
}

// Put stores a record stamped with the current time
func (c *EmployeeCache) Put(user models.User) {
	if c.ttl <= 0 || user.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[user.ID] = cacheEntry{user: user, fetched: c.now()}
}

// Invalidate removes one record
func (c *EmployeeCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// Clear removes every record
func (c *EmployeeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of stored records, fresh or not
func (c *EmployeeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
