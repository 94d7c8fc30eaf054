package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"taskapp/internal/core/port"
)

// MemoryStore keeps entries in process. A zero ttl uses the store default.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(defaultTTL, cleanupInterval)}
}

var _ port.CacheRepository = (*MemoryStore)(nil)

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.cache.Set(key, stored, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	value, found := s.cache.Get(key)
	if !found {
		return nil, port.ErrCacheMiss
	}

	return value.([]byte), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}

	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

func (s *MemoryStore) ItemCount() int {
	return s.cache.ItemCount()
}
