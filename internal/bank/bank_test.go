package bank

import (
	"fmt"
	"math/rand"
	"testing"

	"trivia-quiz-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuestionsLoad(t *testing.T) {
	questions, err := DefaultQuestions()
	require.NoError(t, err)

	b, err := New(questions)
	require.NoError(t, err)
	for _, c := range domain.Categories() {
		assert.GreaterOrEqual(t, b.Count(c), 10, "category %s", c)
	}
	assert.Equal(t, len(questions), b.Count(domain.CategoryAll))
}

func TestSampleReturnsDistinctQuestionsFromCategory(t *testing.T) {
	b := defaultBank(t)

	for _, c := range append(domain.Categories(), domain.CategoryAll) {
		t.Run(c.String(), func(t *testing.T) {
			picked, err := b.Sample(c, 10)
			require.NoError(t, err)
			require.Len(t, picked, 10)

			seen := make(map[string]struct{})
			for _, q := range picked {
				if c != domain.CategoryAll {
					assert.Equal(t, c, q.Category)
				}
				_, dup := seen[q.ID]
				assert.False(t, dup, "duplicate %s", q.ID)
				seen[q.ID] = struct{}{}
			}
		})
	}
}

func TestSampleInsufficientQuestions(t *testing.T) {
	b := defaultBank(t)

	_, err := b.Sample(domain.CategoryScience, b.Count(domain.CategoryScience)+1)
	require.ErrorIs(t, err, domain.ErrInsufficientQuestions)
	assert.Contains(t, err.Error(), "science")

	_, err = b.Sample(domain.CategoryScience, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCount)

	_, err = b.Sample(domain.Category("astrology"), 1)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestSampleDoesNotMutateBank(t *testing.T) {
	b := defaultBank(t)
	before := b.Questions()

	picked, err := b.Sample(domain.CategoryAll, 10)
	require.NoError(t, err)
	picked[0].Options[0] = "tampered"
	picked[0].Prompt = "tampered"

	assert.Equal(t, before, b.Questions())
}

func TestSampleIsSeededByRand(t *testing.T) {
	questions, err := DefaultQuestions()
	require.NoError(t, err)

	b1, err := New(questions, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	b2, err := New(questions, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	p1, err := b1.Sample(domain.CategoryHistory, 10)
	require.NoError(t, err)
	p2, err := b2.Sample(domain.CategoryHistory, 10)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestNewRejectsBadQuestions(t *testing.T) {
	q := func(id string) domain.Question {
		return domain.Question{
			ID:       id,
			Category: domain.CategoryMusic,
			Prompt:   fmt.Sprintf("prompt %s", id),
			Options:  []string{"a", "b", "c", "d"},
			Correct:  1,
		}
	}

	_, err := New([]domain.Question{q("m1"), q("m1")})
	assert.ErrorIs(t, err, domain.ErrDuplicateQuestion)

	bad := q("m2")
	bad.Correct = 9
	_, err = New([]domain.Question{bad})
	assert.ErrorIs(t, err, domain.ErrInvalidQuestion)

	_, err = New([]domain.Question{q("")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuestion)
}

func TestCategoriesIncludeCounts(t *testing.T) {
	b := defaultBank(t)
	infos := b.Categories()
	require.Len(t, infos, len(domain.Categories())+1)
	assert.Equal(t, domain.CategoryAll, infos[len(infos)-1].Category)
	assert.Equal(t, b.Count(domain.CategoryAll), infos[len(infos)-1].Questions)
	assert.NotEmpty(t, infos[0].Name)
}

func defaultBank(t *testing.T) *Bank {
	t.Helper()
	questions, err := DefaultQuestions()
	require.NoError(t, err)
	b, err := New(questions)
	require.NoError(t, err)
	return b
}
