package cache

import (
	"context"
	"os"
)

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	ClearAll(ctx context.Context)
}

// Open picks the backend from the environment: STORE_CACHE_REDIS_URL selects
// Redis, otherwise files go to STORE_CACHE_DIR or DefaultDir. A nil Backend
// with a nil error means caching is off.
func Open() (Backend, error) {
	if Disabled() {
		return nil, nil
	}
	if url := os.Getenv("STORE_CACHE_REDIS_URL"); url != "" {
		return NewRedisBackend(url)
	}
	dir := os.Getenv("STORE_CACHE_DIR")
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	return &FileBackend{Dir: dir}, nil
}
