package http

import (
	"context"
	"encoding/json"
	"net/http"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/flow"
	"trivia-quiz-service/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WSHandler struct {
	service  *app.QuizService
	log      *logrus.Entry
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log *logrus.Entry) *WSHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectCategoryPayload struct {
	Category string `json:"category"`
}

type answerPayload struct {
	Option *int `json:"option"`
}

type connectedPayload struct {
	PlayerID string `json:"playerId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// Every player gets an independent screen flow; playerId is generated when absent.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := h.log.WithField("player_id", playerID)
	screen := h.service.Connect(ctx, playerID)
	defer h.service.Leave(context.Background(), playerID)

	send := make(chan outboundMessage[any], 32)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Debug("ws write error")
				_ = conn.Close()
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	events := &eventForwarder{service: h.service, playerID: playerID, send: send}
	defer func() {
		events.stop()
		close(send)
		<-writerDone
	}()

	push(outboundMessage[any]{Type: "connected", Payload: connectedPayload{PlayerID: playerID}})
	push(screenMessage(screen))
	events.follow(ctx, screen)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		next, err := h.dispatch(ctx, playerID, inbound)
		if err != nil {
			log.WithError(err).WithField("type", inbound.Type).Debug("ws action rejected")
			if !push(errorMessage(err.Error())) {
				break
			}
			continue
		}
		if next == nil {
			continue
		}
		if next.Name() != screen.Name() || sessionChanged(screen, next) {
			if !push(screenMessage(next)) {
				break
			}
			events.follow(ctx, next)
		}
		screen = next
	}
}

// dispatch applies one inbound action. A nil screen means nothing to report
// beyond the session events.
func (h *WSHandler) dispatch(ctx context.Context, playerID string, inbound inboundMessage) (flow.Screen, error) {
	switch inbound.Type {
	case "selectCategory":
		var payload selectCategoryPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return nil, errInvalidPayload
		}
		category, err := domain.ParseCategory(payload.Category)
		if err != nil {
			return nil, err
		}
		return h.service.SelectCategory(ctx, playerID, category)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == nil {
			return nil, errInvalidPayload
		}
		_, err := h.service.Answer(ctx, playerID, *payload.Option)
		return nil, err
	case "next":
		return h.service.Next(ctx, playerID)
	case "back":
		return h.service.Back(ctx, playerID)
	case "playAgain":
		return h.service.PlayAgain(ctx, playerID)
	case "backToCategories":
		return h.service.BackToCategories(ctx, playerID)
	default:
		return nil, errUnsupportedMessage
	}
}

func sessionChanged(prev, next flow.Screen) bool {
	p, ok1 := prev.(flow.Playing)
	n, ok2 := next.(flow.Playing)
	return ok1 && ok2 && p.Session != n.Session
}

func screenMessage(screen flow.Screen) outboundMessage[any] {
	return outboundMessage[any]{Type: "screen", Payload: newScreenView(screen)}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
