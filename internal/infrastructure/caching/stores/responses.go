// Package stores provides concrete cache store implementations
package stores

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Variant separates published responses from draft responses
type Variant string

const (
	VariantPublished Variant = "published"
	VariantPreview   Variant = "preview"
)

// CachedResponse is one stored backend response body
type CachedResponse struct {
	Body      []byte
	Variant   Variant
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its revalidation window
func (r *CachedResponse) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// ResponseStore caches content backend responses for their revalidation window
type ResponseStore struct {
	entries map[string]*CachedResponse
	hits    int64
	misses  int64
	mu      sync.RWMutex
	now     func() time.Time
}

// NewResponseStore creates an empty response store
func NewResponseStore() *ResponseStore {
	return &ResponseStore{
		entries: make(map[string]*CachedResponse),
		now:     time.Now,
	}
}

// BuildResponseKey creates a unique key from the request shape. Bodies are
// hashed so GraphQL queries do not bloat the key space.
func BuildResponseKey(variant Variant, method, url string, body []byte) string {
	key := string(variant) + ":" + strings.ToUpper(method) + ":" + url
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		key += ":" + hex.EncodeToString(sum[:8])
	}
	return key
}

// Get returns a live cached body
func (rs *ResponseStore) Get(key string) ([]byte, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	entry, exists := rs.entries[key]
	if !exists || entry.Expired(rs.now()) {
		rs.misses++
		return nil, false
	}
	rs.hits++
	return entry.Body, true
}

// Set stores a body for ttl. A non-positive ttl disables caching for the key.
func (rs *ResponseStore) Set(key string, variant Variant, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := rs.now()

	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.entries[key] = &CachedResponse{
		Body:      body,
		Variant:   variant,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// =============================================================================
// Cache Management Operations
// =============================================================================

// InvalidateByVariant drops every entry of one variant
func (rs *ResponseStore) InvalidateByVariant(variant Variant) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	removed := 0
	for key, entry := range rs.entries {
		if entry.Variant == variant {
			delete(rs.entries, key)
			removed++
		}
	}
	return removed
}

// PurgeExpired removes expired entries and returns how many were removed
func (rs *ResponseStore) PurgeExpired() int {
	now := rs.now()

	rs.mu.Lock()
	defer rs.mu.Unlock()

	removed := 0
	for key, entry := range rs.entries {
		if entry.Expired(now) {
			delete(rs.entries, key)
			removed++
		}
	}
	return removed
}

// Summary returns cache status for reporting
func (rs *ResponseStore) Summary() map[string]any {
	now := rs.now()

	rs.mu.RLock()
	defer rs.mu.RUnlock()

	byVariant := map[Variant]int{}
	expired := 0
	var bytes int
	for _, entry := range rs.entries {
		byVariant[entry.Variant]++
		bytes += len(entry.Body)
		if entry.Expired(now) {
			expired++
		}
	}

	return map[string]any{
		"entries":   len(rs.entries),
		"published": byVariant[VariantPublished],
		"preview":   byVariant[VariantPreview],
		"expired":   expired,
		"bytes":     bytes,
		"hits":      rs.hits,
		"misses":    rs.misses,
	}
}
