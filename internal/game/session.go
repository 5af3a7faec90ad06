package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

var (
	// ErrAnswerLocked is returned when an answer arrives after the reveal.
	ErrAnswerLocked = errors.New("answer already revealed for this question")
	// ErrInvalidOption is returned for an option index outside the question's options.
	ErrInvalidOption = errors.New("option out of range")
	// ErrNotRevealed is returned when advancing before the answer is revealed.
	ErrNotRevealed = errors.New("answer not revealed yet")
	// ErrSessionFinished is returned for actions after the last question.
	ErrSessionFinished = errors.New("session finished")
	// ErrSessionClosed is returned for actions on an abandoned session.
	ErrSessionClosed = errors.New("session closed")
	// ErrNoQuestions is returned when a session is created without questions.
	ErrNoQuestions = errors.New("session needs at least one question")
)

const (
	// DefaultBudget is the number of ticks a player gets per question.
	DefaultBudget = 30
	// DefaultTickInterval is the wall-clock length of one tick.
	DefaultTickInterval = time.Second
)

const noSelection = -1

// Phase is the session's position in the answer cycle of the current question.
type Phase string

const (
	PhaseAwaitingAnswer Phase = "awaitingAnswer"
	PhaseAnswerRevealed Phase = "answerRevealed"
	PhaseFinished       Phase = "finished"
)

// Outcome explains why the current question was revealed.
type Outcome string

const (
	OutcomePending     Outcome = ""
	OutcomeCorrect     Outcome = "correct"
	OutcomeIncorrect   Outcome = "incorrect"
	OutcomeTimeExpired Outcome = "timeExpired"
)

// Config tunes the per-question countdown.
type Config struct {
	// Budget is the number of ticks before time expires.
	Budget int
	// TickInterval is how often the countdown fires.
	TickInterval time.Duration
	// Manual disables the background countdown; the caller drives Tick.
	Manual bool
	// ShuffleOptions permutes each question's options once per session.
	ShuffleOptions bool
	// OnReveal, when set, is called with the outcome of every revealed
	// question, timer expiry included. It runs under the session lock.
	OnReveal func(Outcome)
}

func (c Config) withDefaults() Config {
	if c.Budget <= 0 {
		c.Budget = DefaultBudget
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	return c
}

// Session runs one timed game over a fixed, already sampled list of questions.
// Events (answers, ticks, advances) are applied one at a time under mu.
type Session struct {
	id        string
	category  domain.Category
	questions []domain.Question
	cfg       Config

	mu        sync.Mutex
	index     int
	score     int
	remaining int
	selected  int
	phase     Phase
	outcome   Outcome
	summary   *domain.Summary
	closed    bool

	// generation changes whenever the session leaves AwaitingAnswer so a tick
	// scheduled for an earlier question is discarded.
	generation    uint64
	stopCountdown context.CancelFunc
	subscribers   map[chan Event]struct{}
}

// New creates a session positioned on the first question and starts its countdown.
func New(id string, category domain.Category, questions []domain.Question, cfg Config) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	s := &Session{
		id:          id,
		category:    category,
		questions:   append([]domain.Question(nil), questions...),
		cfg:         cfg.withDefaults(),
		subscribers: make(map[chan Event]struct{}),
	}
	if s.cfg.ShuffleOptions {
		for i, q := range s.questions {
			s.questions[i] = shuffleOptions(q)
		}
	}

	s.mu.Lock()
	s.enterQuestionLocked(0)
	s.mu.Unlock()
	return s, nil
}

// shuffleOptions returns q with its options in random order and Correct
// following the right answer. The input is left untouched.
func shuffleOptions(q domain.Question) domain.Question {
	perm := rand.Perm(len(q.Options))
	options := make([]string, len(q.Options))
	correct := q.Correct
	for to, from := range perm {
		options[to] = q.Options[from]
		if from == q.Correct {
			correct = to
		}
	}
	q.Options = options
	q.Correct = correct
	return q
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Category returns the category the questions were sampled from.
func (s *Session) Category() domain.Category {
	return s.category
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Summary returns the result once the session has finished.
func (s *Session) Summary() (domain.Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return domain.Summary{}, false
	}
	return *s.summary, true
}

// SelectAnswer records the player's choice for the current question. Only the
// first selection made while awaiting an answer counts.
func (s *Session) SelectAnswer(option int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	if s.phase != PhaseAwaitingAnswer {
		return s.snapshotLocked(), ErrAnswerLocked
	}
	q := s.questions[s.index]
	if option < 0 || option >= len(q.Options) {
		return s.snapshotLocked(), ErrInvalidOption
	}

	s.selected = option
	outcome := OutcomeIncorrect
	if q.IsCorrect(option) {
		s.score++
		outcome = OutcomeCorrect
	}
	s.revealLocked(outcome)
	return s.snapshotLocked(), nil
}

// Tick advances the countdown by one step. When the countdown reaches zero the
// answer is revealed as expired. Outside AwaitingAnswer it does nothing.
func (s *Session) Tick() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.tickLocked()
	}
	return s.snapshotLocked()
}

// Advance moves past a revealed answer to the next question, or finishes the
// session after the last one and returns its summary.
func (s *Session) Advance() (Snapshot, *domain.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return s.snapshotLocked(), nil, err
	}
	if s.phase != PhaseAnswerRevealed {
		return s.snapshotLocked(), nil, ErrNotRevealed
	}

	if s.index < len(s.questions)-1 {
		s.enterQuestionLocked(s.index + 1)
		return s.snapshotLocked(), nil, nil
	}

	s.phase = PhaseFinished
	s.summary = &domain.Summary{
		Score:    s.score,
		Total:    len(s.questions),
		Category: s.category,
	}
	summary := *s.summary
	s.broadcastLocked(EventFinished)
	return s.snapshotLocked(), &summary, nil
}

// Close abandons the session: the countdown stops and subscribers are released.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopCountdownLocked()
	s.generation++
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) activeLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.phase == PhaseFinished {
		return ErrSessionFinished
	}
	return nil
}

func (s *Session) enterQuestionLocked(index int) {
	s.index = index
	s.selected = noSelection
	s.outcome = OutcomePending
	s.remaining = s.cfg.Budget
	s.phase = PhaseAwaitingAnswer
	s.generation++
	s.startCountdownLocked()
	s.broadcastLocked(EventQuestion)
}

func (s *Session) revealLocked(outcome Outcome) {
	s.phase = PhaseAnswerRevealed
	s.outcome = outcome
	s.stopCountdownLocked()
	s.generation++
	if s.cfg.OnReveal != nil {
		s.cfg.OnReveal(outcome)
	}
	s.broadcastLocked(EventRevealed)
}

func (s *Session) tickLocked() {
	if s.phase != PhaseAwaitingAnswer || s.remaining <= 0 {
		return
	}
	s.remaining--
	if s.remaining == 0 {
		s.revealLocked(OutcomeTimeExpired)
		return
	}
	s.broadcastLocked(EventTick)
}

// tickFrom applies a countdown tick scheduled for generation gen. It reports
// whether the countdown should keep running.
func (s *Session) tickFrom(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		return false
	}
	s.tickLocked()
	return s.phase == PhaseAwaitingAnswer
}

func (s *Session) startCountdownLocked() {
	s.stopCountdownLocked()
	if s.cfg.Manual {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopCountdown = cancel
	go s.runCountdown(ctx, s.generation, s.cfg.TickInterval)
}

func (s *Session) stopCountdownLocked() {
	if s.stopCountdown != nil {
		s.stopCountdown()
		s.stopCountdown = nil
	}
}

func (s *Session) runCountdown(ctx context.Context, gen uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tickFrom(gen) {
				return
			}
		}
	}
}
