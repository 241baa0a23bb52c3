// Package cache keeps short-lived copies of list results used for name
// resolution, such as the product list behind `store product get latte`.
//
// Entries are scoped per resource, server URL and profile. Default TTL is
// 5 minutes. Disable with STORE_NO_CACHE=1.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Backend stores opaque cache payloads. Misses and failures both report
// ok=false; the cache never fails a command.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Store reads and writes a single cache key (resource+server+profile).
type Store struct {
	backend Backend
	key     string
	ttl     time.Duration
}

// NewStore creates a Store with the default 5-minute TTL.
func NewStore(backend Backend, resource, baseURL, profile string) *Store {
	return NewStoreWithTTL(backend, resource, baseURL, profile, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(backend Backend, resource, baseURL, profile string, ttl time.Duration) *Store {
	return &Store{
		backend: backend,
		key:     Key(resource, baseURL, profile),
		ttl:     ttl,
	}
}

// Key builds "<resource>_<12hex>_<profile>", the hex being derived from baseURL.
func Key(resource, baseURL, profile string) string {
	hash := sha1.Sum([]byte(baseURL))
	return fmt.Sprintf("%s_%s_%s", sanitizeKey(resource, "cache"), hex.EncodeToString(hash[:6]), sanitizeKey(profile, "default"))
}

// Get loads cached items into dst. Returns false on miss, expiry or when disabled.
func (s *Store) Get(ctx context.Context, dst any) bool {
	if s == nil || s.backend == nil || Disabled() {
		return false
	}
	data, ok := s.backend.Get(ctx, s.key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// Put writes items to the cache. Silently no-ops on error or when disabled.
func (s *Store) Put(ctx context.Context, items any) {
	if s == nil || s.backend == nil || Disabled() {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	s.backend.Set(ctx, s.key, data, s.ttl)
}

// Clear removes this cache entry.
func (s *Store) Clear(ctx context.Context) {
	if s == nil || s.backend == nil {
		return
	}
	s.backend.Delete(ctx, s.key)
}

// Disabled reports whether STORE_NO_CACHE is set.
func Disabled() bool {
	return os.Getenv("STORE_NO_CACHE") != ""
}

func sanitizeKey(key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	return strings.NewReplacer("/", "-", "\\", "-", "_", "-", ":", "-").Replace(key)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
