package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	TTL      time.Duration   `json:"ttl"`
	Items    json.RawMessage `json:"items"`
}

// FileBackend keeps one JSON file per key under Dir.
type FileBackend struct {
	Dir string
}

var _ Backend = (*FileBackend)(nil)

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.Dir, key+".json")
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, bool) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if time.Since(e.CachedAt) > e.TTL {
		return nil, false
	}
	return e.Items, true
}

func (b *FileBackend) Set(_ context.Context, key string, items []byte, ttl time.Duration) {
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		TTL:      ttl,
		Items:    items,
	})
	if err != nil {
		return
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return
	}

	// Write temp then rename so readers never see a partial file.
	path := b.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, path)
}

func (b *FileBackend) Delete(_ context.Context, key string) {
	_ = os.Remove(b.path(key))
}

// ClearAll removes all cache files from the directory. Only names matching
// the Key scheme are touched.
func (b *FileBackend) ClearAll(_ context.Context) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		_ = os.Remove(filepath.Join(b.Dir, e.Name()))
	}
}

// DefaultDir returns "$XDG_CACHE_HOME/store-cli" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "store-cli"), nil
}

func isCacheFilename(name string) bool {
	if filepath.Ext(name) != ".json" {
		return false
	}
	parts := strings.Split(strings.TrimSuffix(name, ".json"), "_")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return false
	}
	return len(parts[1]) == 12 && isHex(parts[1])
}
