package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// MemoryCache: cache proses tunggal, dipakai di test.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	raw []byte
	exp time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem), now: time.Now}
}

func (m *MemoryCache) GetJSON(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	it, ok := m.items[key]
	if ok && !it.exp.IsZero() && m.now().After(it.exp) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return sonic.Unmarshal(it.raw, dest)
}

func (m *MemoryCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = memItem{raw: raw, exp: exp}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}
