package persist

import (
	"sort"
	"sync"
)

// MemStore is an in-memory document store, used in tests and as a scratch
// backend.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte // namespace -> id -> data
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]map[string][]byte)}
}

func (s *MemStore) Read(namespace, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[namespace][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemStore) List(namespace string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns := s.docs[namespace]
	ids := make([]string, 0, len(ns))
	for id := range ns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Data: append([]byte(nil), ns[id]...)})
	}
	return docs, nil
}

func (s *MemStore) Write(namespace, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[namespace] == nil {
		s.docs[namespace] = make(map[string][]byte)
	}
	s.docs[namespace][id] = append([]byte(nil), data...)
	return nil
}

func (s *MemStore) Delete(namespace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[namespace][id]; !ok {
		return ErrNotFound
	}
	delete(s.docs[namespace], id)
	return nil
}

func (s *MemStore) Close() error { return nil }
