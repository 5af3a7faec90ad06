package bank

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Bank is an immutable snapshot of the question set grouped by category.
// Only its private random source changes after construction.
type Bank struct {
	byCategory map[domain.Category][]domain.Question
	all        []domain.Question

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Bank.
type Option func(*Bank)

// WithRand replaces the random source, mostly for deterministic tests.
func WithRand(rnd *rand.Rand) Option {
	return func(b *Bank) {
		b.rnd = rnd
	}
}

// New validates questions and builds a bank from them.
func New(questions []domain.Question, opts ...Option) (*Bank, error) {
	b := &Bank{
		byCategory: make(map[domain.Category][]domain.Question),
		all:        make([]domain.Question, 0, len(questions)),
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}

	ids := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %q: %w", q.ID, err)
		}
		if q.ID == "" {
			return nil, fmt.Errorf("%w: question without id", domain.ErrInvalidQuestion)
		}
		if _, dup := ids[q.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateQuestion, q.ID)
		}
		ids[q.ID] = struct{}{}

		q.Options = append([]string(nil), q.Options...)
		b.byCategory[q.Category] = append(b.byCategory[q.Category], q)
		b.all = append(b.all, q)
	}
	return b, nil
}

// Sample returns count distinct questions from category in random order.
// CategoryAll draws from every category. Asking for more questions than the
// category holds fails with domain.ErrInsufficientQuestions.
func (b *Bank) Sample(category domain.Category, count int) ([]domain.Question, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidCount, count)
	}

	pool := b.pool(category)
	if len(pool) < count {
		return nil, fmt.Errorf("%w %s: requested %d, available %d",
			domain.ErrInsufficientQuestions, category, count, len(pool))
	}

	b.mu.Lock()
	perm := b.rnd.Perm(len(pool))
	b.mu.Unlock()

	picked := make([]domain.Question, count)
	for i := 0; i < count; i++ {
		q := pool[perm[i]]
		q.Options = append([]string(nil), q.Options...)
		picked[i] = q
	}
	return picked, nil
}

// Count returns how many questions category holds.
func (b *Bank) Count(category domain.Category) int {
	return len(b.pool(category))
}

// Questions returns a copy of every question in the bank.
func (b *Bank) Questions() []domain.Question {
	out := make([]domain.Question, len(b.all))
	copy(out, b.all)
	return out
}

// Categories lists the concrete categories followed by All, with counts.
func (b *Bank) Categories() []domain.CategoryInfo {
	cats := append(domain.Categories(), domain.CategoryAll)
	infos := make([]domain.CategoryInfo, 0, len(cats))
	for _, c := range cats {
		info := c.Info()
		info.Questions = b.Count(c)
		infos = append(infos, info)
	}
	return infos
}

func (b *Bank) pool(category domain.Category) []domain.Question {
	if category == domain.CategoryAll {
		return b.all
	}
	return b.byCategory[category]
}
