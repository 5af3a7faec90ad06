package memory

import (
	"sync"

	"trivia-quiz-service/internal/flow"
)

type flowEntry struct {
	flow *flow.Flow
	refs int
}

// SessionStore is an in-memory implementation of app.SessionRepository.
// Every GetOrCreate holds a reference on the player's flow until Release.
type SessionStore struct {
	mu    sync.RWMutex
	flows map[string]*flowEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		flows: make(map[string]*flowEntry),
	}
}

func (s *SessionStore) GetOrCreate(playerID string, create func() *flow.Flow) *flow.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.flows[playerID]; ok {
		e.refs++
		return e.flow
	}
	f := create()
	s.flows[playerID] = &flowEntry{flow: f, refs: 1}
	return f
}

func (s *SessionStore) Get(playerID string) (*flow.Flow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.flows[playerID]
	if !ok {
		return nil, false
	}
	return e.flow, true
}

// Release drops one reference. The flow is removed, and returned with true,
// only when the last reference goes.
func (s *SessionStore) Release(playerID string) (*flow.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.flows[playerID]
	if !ok {
		return nil, false
	}
	e.refs--
	if e.refs > 0 {
		return e.flow, false
	}
	delete(s.flows, playerID)
	return e.flow, true
}

// Len reports how many players are connected.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flows)
}
