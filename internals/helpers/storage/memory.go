package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStore dipakai di test dan STORAGE_DRIVER=memory.
type MemoryStore struct {
	mu        sync.RWMutex
	objects   map[string]memObject
	PublicURL string
}

type memObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore(publicURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject), PublicURL: publicURL}
}

func (m *MemoryStore) Driver() Driver { return DriverMemory }

func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[k] = memObject{data: buf.Bytes(), contentType: contentType}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[k]; !ok {
		return ErrNotFound
	}
	delete(m.objects, k)
	return nil
}

func (m *MemoryStore) URL(key string) string {
	return joinURL(m.PublicURL, key)
}

// Get & Has hanya untuk pemeriksaan di test.
func (m *MemoryStore) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o.data, o.contentType, ok
}

func (m *MemoryStore) Has(key string) bool {
	_, _, ok := m.Get(key)
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
