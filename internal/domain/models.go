package domain

import (
	"fmt"
	"strings"
)

// OptionsPerQuestion is the fixed number of answer options.
const OptionsPerQuestion = 4

// Question models a multiple-choice question with exactly one correct option.
type Question struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// Validate checks the shape rules every stored question must satisfy.
func (q Question) Validate() error {
	if !q.Category.Concrete() {
		return fmt.Errorf("%w: category %q is not a concrete category", ErrInvalidQuestion, q.Category)
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: prompt is empty", ErrInvalidQuestion)
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("%w: expected %d options, got %d", ErrInvalidQuestion, OptionsPerQuestion, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for i, opt := range q.Options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if key == "" {
			return fmt.Errorf("%w: option %d is empty", ErrInvalidQuestion, i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: option %q is repeated", ErrInvalidQuestion, opt)
		}
		seen[key] = struct{}{}
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("%w: correct index %d out of range", ErrInvalidQuestion, q.Correct)
	}
	return nil
}

// IsCorrect reports whether option matches the correct index.
func (q Question) IsCorrect(option int) bool {
	return option == q.Correct
}

// CorrectText returns the text of the correct option.
func (q Question) CorrectText() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}
