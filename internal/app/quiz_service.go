package app

import (
	"context"
	"fmt"

	"trivia-quiz-service/internal/bank"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/flow"
	"trivia-quiz-service/internal/game"
	"trivia-quiz-service/internal/logger"
	"trivia-quiz-service/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionRepository abstracts where player flows live (in-memory, Redis-marked, etc).
// GetOrCreate takes a reference on the flow and Release gives it back; the
// flow is dropped, and Release reports true, when the last reference goes.
type SessionRepository interface {
	GetOrCreate(playerID string, create func() *flow.Flow) *flow.Flow
	Get(playerID string) (*flow.Flow, bool)
	Release(playerID string) (*flow.Flow, bool)
}

// BankRepository serves the current question bank snapshot.
type BankRepository interface {
	GetBank(ctx context.Context) (*bank.Bank, error)
	Invalidate(ctx context.Context) error
}

// QuestionWriter persists authored questions.
type QuestionWriter interface {
	AddQuestion(ctx context.Context, q domain.Question) error
}

// Settings are the game rules applied to every new session.
type Settings struct {
	QuestionsPerGame int
	Game             game.Config
}

// DefaultSettings is ten questions with a thirty second countdown each.
func DefaultSettings() Settings {
	return Settings{
		QuestionsPerGame: 10,
		Game: game.Config{
			Budget:       game.DefaultBudget,
			TickInterval: game.DefaultTickInterval,
		},
	}
}

// Option configures a QuizService.
type Option func(*QuizService)

func WithQuestionWriter(w QuestionWriter) Option {
	return func(s *QuizService) { s.writer = w }
}

func WithSettings(settings Settings) Option {
	return func(s *QuizService) { s.settings = settings }
}

func WithLogger(log *logrus.Entry) Option {
	return func(s *QuizService) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *QuizService) { s.metrics = m }
}

// WithIDGenerator replaces uuid-based session and question IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *QuizService) { s.newID = newID }
}

// QuizService contains the quiz use cases for connected players.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	writer   QuestionWriter
	settings Settings
	log      *logrus.Entry
	metrics  *metrics.Metrics
	newID    func() string
}

func NewQuizService(store SessionRepository, banks BankRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: store,
		banks:    banks,
		settings: DefaultSettings(),
		log:      logger.Discard(),
		metrics:  metrics.New(nil),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect registers a player, or resumes an existing one, and returns the active screen.
func (s *QuizService) Connect(_ context.Context, playerID string) flow.Screen {
	created := false
	f := s.sessions.GetOrCreate(playerID, func() *flow.Flow {
		created = true
		return flow.New(playerID, s.startSession)
	})
	if created {
		s.metrics.ActivePlayers.Inc()
		s.log.WithField("player_id", playerID).Info("player connected")
	}
	return f.Screen()
}

// Leave releases one connection of the player. The game is abandoned and the
// player forgotten only when no other connection still holds the flow.
func (s *QuizService) Leave(_ context.Context, playerID string) {
	f, last := s.sessions.Release(playerID)
	if !last {
		if f != nil {
			s.log.WithField("player_id", playerID).Debug("connection left, flow still held")
		}
		return
	}
	if p, playing := f.Screen().(flow.Playing); playing {
		s.metrics.GamesAbandoned.WithLabelValues(p.Category.String()).Inc()
	}
	f.Close()
	s.metrics.ActivePlayers.Dec()
	s.log.WithField("player_id", playerID).Info("player left")
}

// Screen returns the player's active screen.
func (s *QuizService) Screen(_ context.Context, playerID string) (flow.Screen, error) {
	f, err := s.flow(playerID)
	if err != nil {
		return nil, err
	}
	return f.Screen(), nil
}

// SelectCategory starts a game for the player.
func (s *QuizService) SelectCategory(ctx context.Context, playerID string, category domain.Category) (flow.Screen, error) {
	f, err := s.flow(playerID)
	if err != nil {
		return nil, err
	}
	return f.SelectCategory(ctx, category)
}

// Answer submits the player's option for the current question.
func (s *QuizService) Answer(_ context.Context, playerID string, option int) (game.Snapshot, error) {
	session, err := s.session(playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	snap, err := session.SelectAnswer(option)
	if err != nil {
		return snap, err
	}
	s.log.WithFields(logrus.Fields{
		"player_id":  playerID,
		"session_id": snap.SessionID,
		"question":   snap.Question.ID,
		"outcome":    snap.Outcome,
	}).Debug("answer revealed")
	return snap, nil
}

// Next moves past the revealed answer. After the last question the player's
// flow switches to the results screen.
func (s *QuizService) Next(_ context.Context, playerID string) (flow.Screen, error) {
	f, err := s.flow(playerID)
	if err != nil {
		return nil, err
	}
	session, ok := f.Session()
	if !ok {
		return f.Screen(), fmt.Errorf("%w: no game in progress", flow.ErrInvalidTransition)
	}

	_, summary, err := session.Advance()
	if err != nil {
		return f.Screen(), err
	}

	if summary == nil {
		return f.Screen(), nil
	}
	screen, err := f.Finish(*summary)
	if err != nil {
		return screen, err
	}
	category := summary.Category.String()
	s.metrics.GamesFinished.WithLabelValues(category).Inc()
	s.metrics.ScorePercent.WithLabelValues(category).Observe(float64(summary.Percentage()))
	s.log.WithFields(logrus.Fields{
		"player_id": playerID,
		"category":  category,
		"score":     summary.Score,
		"total":     summary.Total,
	}).Info("game finished")
	return screen, nil
}

// Back abandons the running game.
func (s *QuizService) Back(_ context.Context, playerID string) (flow.Screen, error) {
	f, err := s.flow(playerID)
	if err != nil {
		return nil, err
	}
	before := f.Screen()
	screen, err := f.Back()
	if err != nil {
		return screen, err
	}
	if p, ok := before.(flow.Playing); ok {
		s.metrics.GamesAbandoned.WithLabelValues(p.Category.String()).Inc()
	}
	return screen, nil
}

// PlayAgain starts a fresh game in the category of the last results.
func (s *QuizService) PlayAgain(ctx context.Context, playerID string) (flow.Screen, error) {
	f, err := s.flow(playerID)
	if err != nil {
		return nil, err
	}
	return f.PlayAgain(ctx)
}

// BackToCategories returns from the results screen to category selection.
func (s *QuizService) BackToCategories(_ context.Context, playerID string) (flow.Screen, error) {
	f, err := s.flow(playerID)
	if err != nil {
		return nil, err
	}
	return f.BackToCategories()
}

// Subscribe returns the event stream of the player's running game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, playerID string) (<-chan game.Event, func(), error) {
	session, err := s.session(playerID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Categories lists the selectable categories with question counts.
func (s *QuizService) Categories(ctx context.Context) ([]domain.CategoryInfo, error) {
	b, err := s.banks.GetBank(ctx)
	if err != nil {
		return nil, err
	}
	return b.Categories(), nil
}

// AddQuestion validates and stores a new question. Games started afterwards can draw it.
func (s *QuizService) AddQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if s.writer == nil {
		return domain.Question{}, domain.ErrReadOnlyBank
	}
	if q.ID == "" {
		q.ID = s.newID()
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	if err := s.writer.AddQuestion(ctx, q); err != nil {
		return domain.Question{}, err
	}
	if err := s.banks.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("bank cache invalidation failed")
	}
	s.log.WithFields(logrus.Fields{
		"question_id": q.ID,
		"category":    q.Category,
	}).Info("question added")
	return q, nil
}

func (s *QuizService) startSession(ctx context.Context, category domain.Category) (*game.Session, error) {
	b, err := s.banks.GetBank(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := b.Sample(category, s.settings.QuestionsPerGame)
	if err != nil {
		s.log.WithError(err).WithField("category", category).Warn("cannot start game")
		return nil, err
	}
	cfg := s.settings.Game
	cfg.OnReveal = func(outcome game.Outcome) {
		s.metrics.Answers.WithLabelValues(string(outcome)).Inc()
	}
	session, err := game.New(s.newID(), category, questions, cfg)
	if err != nil {
		return nil, err
	}
	s.metrics.GamesStarted.WithLabelValues(category.String()).Inc()
	s.log.WithFields(logrus.Fields{
		"session_id": session.ID(),
		"category":   category,
	}).Info("game started")
	return session, nil
}

func (s *QuizService) flow(playerID string) (*flow.Flow, error) {
	f, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	return f, nil
}

func (s *QuizService) session(playerID string) (*game.Session, error) {
	f, err := s.flow(playerID)
	if err != nil {
		return nil, err
	}
	session, ok := f.Session()
	if !ok {
		return nil, fmt.Errorf("%w: no game in progress", flow.ErrInvalidTransition)
	}
	return session, nil
}
