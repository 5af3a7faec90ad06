package redis

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/flow"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Flows hold a live countdown goroutine, so they stay in a local map.
//   - Redis only marks which players are connected to this instance, with a
//     TTL so markers of a crashed instance expire on their own.
//   - Every GetOrCreate holds a reference until Release; the marker goes
//     with the last one.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	flows  map[string]*flowEntry
}

type flowEntry struct {
	flow *flow.Flow
	refs int
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		flows:  make(map[string]*flowEntry),
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
	return f
}

func (s *SessionStore) Get(playerID string) (*flow.Flow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.flows[playerID]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 {
		_ = s.client.Expire(context.Background(), s.key(playerID), s.ttl).Err()
	}
	return e.flow, true
}

// Release drops one reference and reports whether it was the last, in which
// case the flow and its marker are removed.
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
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	return e.flow, true
}

func (s *SessionStore) key(playerID string) string {
	return "trivia:player:" + playerID
}
