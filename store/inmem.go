package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/spartacus-ai/spartacus/agentic"
)

// InMemoryStore keeps session snapshots in process memory. Contexts are
// serialized on save so callers cannot mutate stored state through shared
// pointers.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string][]byte),
	}
}

func (s *InMemoryStore) Save(_ context.Context, conv *agentic.Context) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[conv.SessionID] = data
	return nil
}

func (s *InMemoryStore) Load(_ context.Context, sessionID string) (*agentic.Context, error) {
	s.mu.RLock()
	data, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var conv agentic.Context
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
