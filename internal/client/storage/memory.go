package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/vaultacks/internal/common"
)

// MemoryBackend keeps blobs in a map. It backs tests and throwaway sessions.
type MemoryBackend struct {
	mu    sync.Mutex
	blobs map[string][]byte
	// BaseURL prefixes the URLs returned by Put.
	BaseURL string
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: map[string][]byte{}, BaseURL: "mem://"}
}

func (m *MemoryBackend) Get(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blobs[path]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryBackend) Put(_ context.Context, path string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[path] = append([]byte(nil), data...)
	return m.BaseURL + path, nil
}

func (m *MemoryBackend) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, path)
	return nil
}

func (m *MemoryBackend) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
