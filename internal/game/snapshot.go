package game

import "trivia-quiz-service/internal/domain"

// Snapshot is a read-only view of a session for the play screen.
type Snapshot struct {
	SessionID string          `json:"sessionId"`
	Category  domain.Category `json:"category"`
	Index     int             `json:"index"`
	Total     int             `json:"total"`
	Score     int             `json:"score"`
	Remaining int             `json:"remaining"`
	Budget    int             `json:"budget"`
	Phase     Phase           `json:"phase"`
	Outcome   Outcome         `json:"outcome,omitempty"`
	Question  QuestionView    `json:"question"`
	// Selected is nil until the player picks an option.
	Selected *int `json:"selected,omitempty"`
	// Correct is only filled once the answer is revealed.
	Correct *int `json:"correct,omitempty"`
}

// QuestionView is the part of a question the player may see before answering.
type QuestionView struct {
	ID       string          `json:"id"`
	Category domain.Category `json:"category"`
	Prompt   string          `json:"prompt"`
	Options  []string        `json:"options"`
}

// Revealed reports whether the correct answer is visible.
func (s Snapshot) Revealed() bool {
	return s.Phase != PhaseAwaitingAnswer
}

// IsLast reports whether the current question is the final one.
func (s Snapshot) IsLast() bool {
	return s.Index == s.Total-1
}

func (s *Session) snapshotLocked() Snapshot {
	q := s.questions[s.index]
	snap := Snapshot{
		SessionID: s.id,
		Category:  s.category,
		Index:     s.index,
		Total:     len(s.questions),
		Score:     s.score,
		Remaining: s.remaining,
		Budget:    s.cfg.Budget,
		Phase:     s.phase,
		Outcome:   s.outcome,
		Question: QuestionView{
			ID:       q.ID,
			Category: q.Category,
			Prompt:   q.Prompt,
			Options:  append([]string(nil), q.Options...),
		},
	}
	if s.selected != noSelection {
		selected := s.selected
		snap.Selected = &selected
	}
	if s.phase != PhaseAwaitingAnswer {
		correct := q.Correct
		snap.Correct = &correct
	}
	return snap
}
