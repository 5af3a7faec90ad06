package http

import (
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/flow"
	"trivia-quiz-service/internal/game"
)

// ScreenView is the wire form of a flow screen.
type ScreenView struct {
	Screen   flow.ScreenName `json:"screen"`
	Category domain.Category `json:"category,omitempty"`
	State    *game.Snapshot  `json:"state,omitempty"`
	Results  *ResultsView    `json:"results,omitempty"`
}

// ResultsView carries the summary with its derived figures.
type ResultsView struct {
	domain.Summary
	Percentage int             `json:"percentage"`
	Incorrect  int             `json:"incorrect"`
	Feedback   domain.Feedback `json:"feedback"`
}

func newScreenView(screen flow.Screen) ScreenView {
	view := ScreenView{Screen: screen.Name()}
	switch s := screen.(type) {
	case flow.Playing:
		snap := s.Session.Snapshot()
		view.Category = s.Category
		view.State = &snap
	case flow.Results:
		view.Category = s.Summary.Category
		view.Results = &ResultsView{
			Summary:    s.Summary,
			Percentage: s.Summary.Percentage(),
			Incorrect:  s.Summary.Incorrect(),
			Feedback:   s.Summary.Feedback(),
		}
	}
	return view
}
