package inmemory

import (
	"context"
	"sync"

	"github.com/thomasma/langgraph-researcher/agents"
)

// Store keeps checkpoints in process memory. It is the default store and
// the one tests run against.
type Store struct {
	mu   sync.RWMutex
	runs map[string]agents.State
}

func NewStore() *Store {
	return &Store{runs: make(map[string]agents.State)}
}

func (s *Store) Save(_ context.Context, id string, state *agents.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = *state
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*agents.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.runs[id]
	if !ok {
		return nil, agents.ErrSessionNotFound
	}
	return &state, nil
}
