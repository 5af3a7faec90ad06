package postgres

import (
	"context"

	"trivia-quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

// QuestionRow is the bun model of the questions table.
type QuestionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID       string   `bun:"id,pk"`
	Category string   `bun:"category,notnull"`
	Prompt   string   `bun:"prompt,notnull"`
	Options  []string `bun:"options,type:jsonb,notnull"`
	Correct  int      `bun:"correct,notnull"`
}

// Seed inserts questions, skipping IDs that already exist, and returns how many were added.
func Seed(ctx context.Context, db bun.IDB, questions []domain.Question) (int64, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	rows := make([]QuestionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, QuestionRow{
			ID:       q.ID,
			Category: string(q.Category),
			Prompt:   q.Prompt,
			Options:  q.Options,
			Correct:  q.Correct,
		})
	}
	res, err := db.NewInsert().Model(&rows).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
