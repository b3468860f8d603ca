package artifacts

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore keeps artifacts in process. It backs local development and tests.
type MemoryStore struct {
	mu        sync.Mutex
	baseURL   string
	objects   map[string][]byte
	DeleteErr error
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: strings.TrimSuffix(baseURL, "/"), objects: make(map[string][]byte)}
}

func (m *MemoryStore) Store(ctx context.Context, key string, data []byte, contentType string) (*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return &Object{URL: fmt.Sprintf("%s/%s", m.baseURL, key), Key: key}, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
