package game

import (
	"fmt"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectAnswerScoresOnce(t *testing.T) {
	s := newManualSession(t, 3)

	snap, err := s.SelectAnswer(correctOf(s))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Score)
	assert.Equal(t, PhaseAnswerRevealed, snap.Phase)
	assert.Equal(t, OutcomeCorrect, snap.Outcome)
	require.NotNil(t, snap.Correct)
	require.NotNil(t, snap.Selected)

	snap, err = s.SelectAnswer(correctOf(s))
	assert.ErrorIs(t, err, ErrAnswerLocked)
	assert.Equal(t, 1, snap.Score)
}

func TestWrongAnswerDoesNotScore(t *testing.T) {
	s := newManualSession(t, 3)

	snap, err := s.SelectAnswer(wrongOf(s))
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, OutcomeIncorrect, snap.Outcome)

	_, err = s.SelectAnswer(correctOf(s))
	assert.ErrorIs(t, err, ErrAnswerLocked)
	assert.Equal(t, 0, s.Snapshot().Score)
}

func TestInvalidOptionKeepsQuestionOpen(t *testing.T) {
	s := newManualSession(t, 1)

	_, err := s.SelectAnswer(domain.OptionsPerQuestion)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = s.SelectAnswer(-1)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, PhaseAwaitingAnswer, s.Snapshot().Phase)

	_, err = s.SelectAnswer(correctOf(s))
	assert.NoError(t, err)
}

func TestTimerExpiryRevealsWithoutScoring(t *testing.T) {
	s := newManualSession(t, 2)

	for i := 0; i < DefaultBudget-1; i++ {
		snap := s.Tick()
		assert.Equal(t, DefaultBudget-1-i, snap.Remaining)
		assert.Equal(t, PhaseAwaitingAnswer, snap.Phase)
	}
	snap := s.Tick()
	assert.Equal(t, 0, snap.Remaining)
	assert.Equal(t, PhaseAnswerRevealed, snap.Phase)
	assert.Equal(t, OutcomeTimeExpired, snap.Outcome)
	assert.Nil(t, snap.Selected)
	assert.Equal(t, 0, snap.Score)

	_, err := s.SelectAnswer(correctOf(s))
	assert.ErrorIs(t, err, ErrAnswerLocked)

	snap = s.Tick()
	assert.Equal(t, 0, snap.Remaining, "remaining never goes negative")
	assert.Equal(t, 0, snap.Score)
}

func TestAdvanceRequiresReveal(t *testing.T) {
	s := newManualSession(t, 2)

	_, _, err := s.Advance()
	assert.ErrorIs(t, err, ErrNotRevealed)

	_, err = s.SelectAnswer(wrongOf(s))
	require.NoError(t, err)
	s.Tick()

	snap, summary, err := s.Advance()
	require.NoError(t, err)
	assert.Nil(t, summary)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, DefaultBudget, snap.Remaining)
	assert.Nil(t, snap.Selected)
	assert.Nil(t, snap.Correct)
	assert.Equal(t, PhaseAwaitingAnswer, snap.Phase)
}

func TestSevenCorrectThreeExpired(t *testing.T) {
	s := newManualSession(t, 10)

	var summary *domain.Summary
	lastScore := 0
	for i := 0; i < 10; i++ {
		if i < 7 {
			_, err := s.SelectAnswer(correctOf(s))
			require.NoError(t, err)
		} else {
			for s.Snapshot().Phase == PhaseAwaitingAnswer {
				s.Tick()
			}
			assert.Equal(t, OutcomeTimeExpired, s.Snapshot().Outcome)
		}
		snap := s.Snapshot()
		assert.GreaterOrEqual(t, snap.Score, lastScore)
		assert.GreaterOrEqual(t, snap.Index, 0)
		assert.Less(t, snap.Index, snap.Total)
		lastScore = snap.Score

		var err error
		_, summary, err = s.Advance()
		require.NoError(t, err)
	}

	require.NotNil(t, summary)
	assert.Equal(t, domain.Summary{Score: 7, Total: 10, Category: domain.CategoryScience}, *summary)

	stored, ok := s.Summary()
	require.True(t, ok)
	assert.Equal(t, *summary, stored)

	snap := s.Snapshot()
	assert.Equal(t, PhaseFinished, snap.Phase)
	assert.Equal(t, 9, snap.Index)

	_, _, err := s.Advance()
	assert.ErrorIs(t, err, ErrSessionFinished)
	_, err = s.SelectAnswer(0)
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestSnapshotHidesCorrectAnswerUntilRevealed(t *testing.T) {
	s := newManualSession(t, 1)
	snap := s.Snapshot()
	assert.Nil(t, snap.Correct)
	assert.False(t, snap.Revealed())
	assert.True(t, snap.IsLast())
	assert.Len(t, snap.Question.Options, domain.OptionsPerQuestion)
}

func TestNewRequiresQuestions(t *testing.T) {
	_, err := New("s", domain.CategoryScience, nil, Config{Manual: true})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestCountdownExpiresQuestion(t *testing.T) {
	s, err := New("s", domain.CategoryScience, questions(1), Config{Budget: 3, TickInterval: 5 * time.Millisecond})
	require.NoError(t, err)
	defer s.Close()

	events, cancel := s.Subscribe()
	defer cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == EventRevealed {
				assert.Equal(t, OutcomeTimeExpired, ev.Snapshot.Outcome)
				assert.Equal(t, 0, ev.Snapshot.Remaining)
				return
			}
		case <-deadline:
			t.Fatalf("countdown never expired, snapshot %+v", s.Snapshot())
		}
	}
}

func TestCountdownStopsAfterAnswer(t *testing.T) {
	s, err := New("s", domain.CategoryScience, questions(2), Config{Budget: 1000, TickInterval: 2 * time.Millisecond})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.SelectAnswer(correctOf(s))
	require.NoError(t, err)
	revealed := s.Snapshot().Remaining

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, revealed, s.Snapshot().Remaining)
	assert.Equal(t, PhaseAnswerRevealed, s.Snapshot().Phase)
}

func TestStaleTickIsDiscarded(t *testing.T) {
	s := newManualSession(t, 2)

	gen := s.generation
	_, err := s.SelectAnswer(wrongOf(s))
	require.NoError(t, err)
	_, _, err = s.Advance()
	require.NoError(t, err)

	assert.False(t, s.tickFrom(gen))
	assert.Equal(t, DefaultBudget, s.Snapshot().Remaining)
	assert.True(t, s.tickFrom(s.generation))
	assert.Equal(t, DefaultBudget-1, s.Snapshot().Remaining)
}

func TestCloseStopsSessionAndSubscribers(t *testing.T) {
	s, err := New("s", domain.CategoryScience, questions(2), Config{Budget: 1000, TickInterval: 2 * time.Millisecond})
	require.NoError(t, err)

	events, cancel := s.Subscribe()
	defer cancel()

	s.Close()
	s.Close()

	for range events {
	}
	remaining := s.Snapshot().Remaining
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, remaining, s.Snapshot().Remaining)

	_, err = s.SelectAnswer(0)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, _, err = s.Advance()
	assert.ErrorIs(t, err, ErrSessionClosed)

	late, lateCancel := s.Subscribe()
	defer lateCancel()
	_, open := <-late
	assert.False(t, open)
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	s := newManualSession(t, 2)
	events, cancel := s.Subscribe()
	defer cancel()

	assert.Equal(t, EventSnapshot, (<-events).Type)

	s.Tick()
	assert.Equal(t, EventTick, (<-events).Type)

	_, err := s.SelectAnswer(correctOf(s))
	require.NoError(t, err)
	ev := <-events
	assert.Equal(t, EventRevealed, ev.Type)
	assert.Equal(t, 1, ev.Snapshot.Score)

	_, _, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, EventQuestion, (<-events).Type)

	_, err = s.SelectAnswer(wrongOf(s))
	require.NoError(t, err)
	<-events
	_, _, err = s.Advance()
	require.NoError(t, err)
	ev = <-events
	assert.Equal(t, EventFinished, ev.Type)
	assert.Equal(t, PhaseFinished, ev.Snapshot.Phase)
}

func TestShuffledOptionsKeepTheRightAnswer(t *testing.T) {
	input := make([]domain.Question, 20)
	for i := range input {
		input[i] = domain.Question{
			ID:       fmt.Sprintf("q%d", i),
			Category: domain.CategoryScience,
			Prompt:   fmt.Sprintf("question %d", i),
			Options:  []string{"w", "x", "y", "z"},
			Correct:  i % domain.OptionsPerQuestion,
		}
	}
	s, err := New("s", domain.CategoryScience, input, Config{Manual: true, ShuffleOptions: true})
	require.NoError(t, err)
	defer s.Close()

	for i, q := range input {
		snap := s.Snapshot()
		assert.ElementsMatch(t, q.Options, snap.Question.Options)

		snap, err := s.SelectAnswer(correctOf(s))
		require.NoError(t, err)
		assert.Equal(t, OutcomeCorrect, snap.Outcome)
		require.NotNil(t, snap.Correct)
		assert.Equal(t, q.CorrectText(), snap.Question.Options[*snap.Correct])

		if i < len(input)-1 {
			_, _, err = s.Advance()
			require.NoError(t, err)
		}
	}
	assert.Equal(t, len(input), s.Snapshot().Score)
	// the caller's questions are not reordered
	assert.Equal(t, []string{"w", "x", "y", "z"}, input[0].Options)
	assert.Equal(t, 0, input[0].Correct)
}

func TestOnRevealReportsEveryOutcome(t *testing.T) {
	var outcomes []Outcome
	s, err := New("s", domain.CategoryScience, questions(3), Config{
		Manual:   true,
		Budget:   2,
		OnReveal: func(o Outcome) { outcomes = append(outcomes, o) },
	})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.SelectAnswer(correctOf(s))
	require.NoError(t, err)
	_, _, err = s.Advance()
	require.NoError(t, err)
	_, err = s.SelectAnswer(wrongOf(s))
	require.NoError(t, err)
	_, _, err = s.Advance()
	require.NoError(t, err)
	s.Tick()
	s.Tick()

	assert.Equal(t, []Outcome{OutcomeCorrect, OutcomeIncorrect, OutcomeTimeExpired}, outcomes)
}

func newManualSession(t *testing.T, n int) *Session {
	t.Helper()
	s, err := New("session-1", domain.CategoryScience, questions(n), Config{Manual: true})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func questions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:       fmt.Sprintf("q%d", i),
			Category: domain.CategoryScience,
			Prompt:   fmt.Sprintf("question %d", i),
			Options:  []string{"a", "b", "c", "d"},
			Correct:  i % domain.OptionsPerQuestion,
		}
	}
	return qs
}

func correctOf(s *Session) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.index].Correct
}

func wrongOf(s *Session) int {
	return (correctOf(s) + 1) % domain.OptionsPerQuestion
}
