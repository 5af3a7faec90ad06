package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"trivia-quiz-service/internal/bank"
	"trivia-quiz-service/internal/domain"
)

// QuestionLoader fetches the full question set from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// StaticQuestionLoader is a loader backed by a slice (useful for tests/demos).
// Added questions live only as long as the process.
type StaticQuestionLoader struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: append([]domain.Question(nil), questions...)}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Question(nil), l.questions...), nil
}

func (l *StaticQuestionLoader) AddQuestion(_ context.Context, q domain.Question) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.questions {
		if existing.ID == q.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateQuestion, q.ID)
		}
	}
	l.questions = append(l.questions, q)
	return nil
}

// FileQuestionLoader reads questions from a JSON file and appends authored
// questions back to it. A missing file is created empty.
type FileQuestionLoader struct {
	path string
	mu   sync.Mutex
}

func NewFileQuestionLoader(path string) *FileQuestionLoader {
	return &FileQuestionLoader{path: path}
}

func (l *FileQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked()
}

func (l *FileQuestionLoader) AddQuestion(_ context.Context, q domain.Question) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	questions, err := l.readLocked()
	if err != nil {
		return err
	}
	for _, existing := range questions {
		if existing.ID == q.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateQuestion, q.ID)
		}
	}
	questions = append(questions, q)

	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	return nil
}

func (l *FileQuestionLoader) readLocked() ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(l.path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("create %s: %w", l.path, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	return bank.ParseQuestions(data)
}
