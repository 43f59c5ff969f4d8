package store

import (
	"context"
	"sort"
	"sync"

	"tableflip.dev/amal/pkg/model"
)

// NewMemory returns a Store that keeps everything in process memory. It is
// used by tests and by the "memory" backend.
func NewMemory() Store {
	return newDocStore(&memory{docs: make(map[model.Kind]map[string][]byte)})
}

type memory struct {
	mu   sync.RWMutex
	docs map[model.Kind]map[string][]byte
}

func (m *memory) read(kind model.Kind, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memory) write(kind model.Kind, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[kind] == nil {
		m.docs[kind] = make(map[string][]byte)
	}
	m.docs[kind][id] = append([]byte(nil), data...)
	return nil
}

func (m *memory) erase(kind model.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[kind][id]; !ok {
		return ErrNotFound
	}
	delete(m.docs[kind], id)
	return nil
}

func (m *memory) ids(_ context.Context, kind model.Kind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.docs[kind]))
	for id := range m.docs[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
