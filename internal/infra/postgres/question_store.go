package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"trivia-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore loads and appends questions in the questions table.
// Options are stored as a JSONB array.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, category, prompt, options, correct FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q        domain.Question
			category string
			options  []byte
		)
		if err := rows.Scan(&q.ID, &category, &q.Prompt, &options, &q.Correct); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options of %s: %w", q.ID, err)
		}
		q.Category = domain.Category(category)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return questions, nil
}

func (s *QuestionStore) AddQuestion(ctx context.Context, q domain.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO questions (id, category, prompt, options, correct) VALUES ($1, $2, $3, $4::jsonb, $5) ON CONFLICT (id) DO NOTHING`,
		q.ID, string(q.Category), q.Prompt, string(options), q.Correct)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateQuestion, q.ID)
	}
	return nil
}
