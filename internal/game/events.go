package game

// EventType names what changed in a session.
type EventType string

const (
	EventSnapshot EventType = "snapshot"
	EventQuestion EventType = "question"
	EventTick     EventType = "tick"
	EventRevealed EventType = "revealed"
	EventFinished EventType = "finished"
)

// Event is pushed to subscribers after every state change.
type Event struct {
	Type     EventType `json:"type"`
	Snapshot Snapshot  `json:"snapshot"`
}

// Subscribe returns a channel that receives session events, starting with the
// current snapshot. The caller must invoke the returned cancel function to
// avoid leaks. The channel is closed when the session is closed.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- Event{Type: EventSnapshot, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(typ EventType) {
	if len(s.subscribers) == 0 {
		return
	}
	ev := Event{Type: typ, Snapshot: s.snapshotLocked()}
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// slow consumer: drop its oldest event to keep the newest state
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
