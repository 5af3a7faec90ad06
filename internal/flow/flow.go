package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/game"
)

// ErrInvalidTransition is returned when an action does not apply to the current screen.
var ErrInvalidTransition = errors.New("invalid screen transition")

// ScreenName identifies a screen variant on the wire.
type ScreenName string

const (
	ScreenCategorySelection ScreenName = "categorySelection"
	ScreenPlaying           ScreenName = "playing"
	ScreenResults           ScreenName = "results"
)

// Screen is one of CategorySelection, Playing or Results. Each variant carries
// exactly the data its screen needs.
type Screen interface {
	Name() ScreenName
	isScreen()
}

// CategorySelection lets the player pick a category.
type CategorySelection struct{}

// Playing runs a game for Category.
type Playing struct {
	Category domain.Category
	Session  *game.Session
}

// Results shows the summary of the last finished game.
type Results struct {
	Summary domain.Summary
}

func (CategorySelection) Name() ScreenName { return ScreenCategorySelection }
func (Playing) Name() ScreenName           { return ScreenPlaying }
func (Results) Name() ScreenName           { return ScreenResults }

func (CategorySelection) isScreen() {}
func (Playing) isScreen()           {}
func (Results) isScreen()           {}

// Starter creates a freshly sampled session for category.
type Starter func(ctx context.Context, category domain.Category) (*game.Session, error)

// Flow is the per-player screen machine.
type Flow struct {
	id    string
	start Starter

	mu     sync.Mutex
	screen Screen
}

// New returns a flow on the category-selection screen.
func New(id string, start Starter) *Flow {
	return &Flow{
		id:     id,
		start:  start,
		screen: CategorySelection{},
	}
}

// ID returns the owning player's identifier.
func (f *Flow) ID() string {
	return f.id
}

// Screen returns the active screen.
func (f *Flow) Screen() Screen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen
}

// Session returns the running session while on the playing screen.
func (f *Flow) Session() (*game.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.screen.(Playing)
	if !ok {
		return nil, false
	}
	return p.Session, true
}

// SelectCategory starts a game for category.
func (f *Flow) SelectCategory(ctx context.Context, category domain.Category) (Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.screen.(CategorySelection); !ok {
		return f.screen, transitionError(f.screen, "select category")
	}
	return f.playLocked(ctx, category)
}

// Finish moves from the playing screen to results once the session reports its summary.
func (f *Flow) Finish(summary domain.Summary) (Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.screen.(Playing)
	if !ok {
		return f.screen, transitionError(f.screen, "finish")
	}
	p.Session.Close()
	f.screen = Results{Summary: summary}
	return f.screen, nil
}

// Back abandons the running game and returns to category selection.
func (f *Flow) Back() (Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.screen.(Playing)
	if !ok {
		return f.screen, transitionError(f.screen, "back")
	}
	p.Session.Close()
	f.screen = CategorySelection{}
	return f.screen, nil
}

// PlayAgain starts a new game with the category of the last results.
func (f *Flow) PlayAgain(ctx context.Context) (Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.screen.(Results)
	if !ok {
		return f.screen, transitionError(f.screen, "play again")
	}
	return f.playLocked(ctx, r.Summary.Category)
}

// BackToCategories leaves the results screen regardless of the score.
func (f *Flow) BackToCategories() (Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.screen.(Results); !ok {
		return f.screen, transitionError(f.screen, "back to categories")
	}
	f.screen = CategorySelection{}
	return f.screen, nil
}

// Close abandons any running game. The flow stays usable.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.screen.(Playing); ok {
		p.Session.Close()
		f.screen = CategorySelection{}
	}
}

func (f *Flow) playLocked(ctx context.Context, category domain.Category) (Screen, error) {
	session, err := f.start(ctx, category)
	if err != nil {
		return f.screen, err
	}
	f.screen = Playing{Category: category, Session: session}
	return f.screen, nil
}

func transitionError(from Screen, action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from.Name())
}
