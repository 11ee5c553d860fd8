package testutil

import (
	"context"
	"errors"
	"io"
	"sync"
)

// MemoryStore is an in-memory storage.ObjectStore.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	FailPut bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: map[string][]byte{}, Types: map[string]string{}}
}

// Put stores the object and returns a mem:// URL for key.
func (m *MemoryStore) Put(_ context.Context, key, contentType string, r io.Reader, _ int64) (string, error) {
	if m.FailPut {
		return "", errors.New("object store unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = b
	m.Types[key] = contentType
	return "mem://" + key, nil
}

// Remove deletes key if present.
func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
