package domain

import "errors"

var (
	// ErrUnknownCategory is returned when a category name is not part of the fixed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInsufficientQuestions is returned when a category holds fewer questions than requested.
	ErrInsufficientQuestions = errors.New("insufficient questions for category")
	// ErrInvalidCount rejects non-positive sample sizes.
	ErrInvalidCount = errors.New("question count must be positive")
	// ErrInvalidQuestion indicates a question failed validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrDuplicateQuestion indicates two questions share an ID.
	ErrDuplicateQuestion = errors.New("duplicate question id")
	// ErrReadOnlyBank is returned when the configured question source cannot accept new questions.
	ErrReadOnlyBank = errors.New("question bank is read-only")
	// ErrFlowNotFound is returned when a player acts before connecting.
	ErrFlowNotFound = errors.New("player flow not found")
)
