package bank

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"trivia-quiz-service/internal/domain"
)

//go:embed data/questions.json
var defaultQuestionsJSON []byte

// DefaultQuestions returns the built-in question set.
func DefaultQuestions() ([]domain.Question, error) {
	return ParseQuestions(defaultQuestionsJSON)
}

// ParseQuestions decodes a JSON array of questions.
func ParseQuestions(data []byte) ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}
