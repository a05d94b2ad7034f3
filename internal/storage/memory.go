package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryAvatarStore keeps objects in process memory. Used in development
// when no S3 credentials are configured, and as the store in tests.
type MemoryAvatarStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryAvatarStore creates an empty in-memory store.
func NewMemoryAvatarStore() *MemoryAvatarStore {
	return &MemoryAvatarStore{objects: make(map[string][]byte)}
}

// Put stores the object bytes under key.
func (s *MemoryAvatarStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// URL returns a synthetic URL for the object.
func (s *MemoryAvatarStore) URL(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return "memory://" + key, nil
}

// Get returns the stored bytes, for test assertions.
func (s *MemoryAvatarStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
