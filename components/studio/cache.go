package studio

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// RenderCache memoizes rendered documents. Keys are namespaced by what they render
// ("storefront:<tenant>::<page>:<step>", "composition:<tenant>:...") so a save can drop
// every entry of one page with Invalidate.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
	Invalidate(prefix string)
}

// TTLCache keeps rendered documents in memory for a fixed time. Failed renders are not stored.
type TTLCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedRender
}

type cachedRender struct {
	html    string
	expires time.Time
}

// NewTTLCache builds a cache with the provided TTL. A non-positive TTL disables caching.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedRender),
	}
}

// GetOrRender returns the entry for key while it is fresh, rendering and storing it otherwise.
func (c *TTLCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

// Invalidate drops every entry whose key starts with prefix.
func (c *TTLCache) Invalidate(prefix string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len reports the stored entries, expired ones included until they are swept.
func (c *TTLCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLCache) lookup(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return "", false
	}
	return entry.html, true
}

// store writes key and sweeps expired entries so pages that stop being requested do not
// accumulate.
func (c *TTLCache) store(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cachedRender{html: html, expires: now.Add(c.ttl)}
}

// contentHash returns a deterministic hash for any JSON-encodable value.
func contentHash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
