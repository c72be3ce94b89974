package storage

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory keeps slots in process memory. Namespaces separate browsers sharing
// one backing cache. Data is lost on restart.
type Memory struct {
	cache     *cache.Cache
	namespace string
	ttl       time.Duration
}

// NewMemory creates an in-memory store. ttl <= 0 keeps entries until deleted.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Memory{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// For returns a view of the same cache scoped to ns.
func (m *Memory) For(ns string) *Memory {
	return &Memory{cache: m.cache, namespace: ns, ttl: m.ttl}
}

func (m *Memory) key(k string) string {
	if m.namespace == "" {
		return k
	}
	return m.namespace + ":" + k
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.cache.Get(m.key(key))
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.cache.Set(m.key(key), value, m.ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.cache.Delete(m.key(k))
	}
	return nil
}
