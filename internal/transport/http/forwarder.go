package http

import (
	"context"
	"errors"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/flow"
)

var (
	errInvalidPayload     = errors.New("invalid payload")
	errUnsupportedMessage = errors.New("unsupported message type")
)

// eventForwarder pipes the events of the player's current session into the
// connection's send queue. Only one session is followed at a time.
type eventForwarder struct {
	service  *app.QuizService
	playerID string
	send     chan<- outboundMessage[any]

	done     chan struct{}
	finished chan struct{}
	cancel   func()
}

// follow stops forwarding the previous session and, on the playing screen,
// starts forwarding the new one.
func (f *eventForwarder) follow(ctx context.Context, screen flow.Screen) {
	f.stop()
	if _, ok := screen.(flow.Playing); !ok {
		return
	}
	events, cancel, err := f.service.Subscribe(ctx, f.playerID)
	if err != nil {
		return
	}

	f.done = make(chan struct{})
	f.finished = make(chan struct{})
	f.cancel = cancel
	done, finished := f.done, f.finished

	go func() {
		defer close(finished)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case f.send <- outboundMessage[any]{Type: "state", Payload: ev}:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()
}

func (f *eventForwarder) stop() {
	if f.done == nil {
		return
	}
	close(f.done)
	f.cancel()
	<-f.finished
	f.done, f.finished, f.cancel = nil, nil, nil
}
