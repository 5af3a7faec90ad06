package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz-service/internal/bank"
	"trivia-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the full question set from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// BankRepository caches the question set in Redis so every instance builds the
// same bank without hitting the loader. Questions are stored as one JSON value:
//
//	SET trivia:bank:questions [...] EX ttl
type BankRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	// generation is bumped by Invalidate; loads from an older generation
	// are returned but not written back.
	genMu      sync.Mutex
	generation uint64
}

func NewBankRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (*bank.Bank, error) {
	if questions, ok := r.cached(ctx); ok {
		return bank.New(questions)
	}

	result, err, _ := r.sf.Do(r.key(), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.cached(ctx); ok {
			return questions, nil
		}

		gen := r.currentGeneration()
		questions, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		if r.currentGeneration() == gen {
			_ = r.client.Set(ctx, r.key(), data, r.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return bank.New(result.([]domain.Question))
}

// Invalidate removes the cached question set.
func (r *BankRepository) Invalidate(ctx context.Context) error {
	r.genMu.Lock()
	r.generation++
	r.genMu.Unlock()
	r.sf.Forget(r.key())
	return r.client.Del(ctx, r.key()).Err()
}

func (r *BankRepository) currentGeneration() uint64 {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	return r.generation
}

func (r *BankRepository) cached(ctx context.Context) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		// redis.Nil on a miss; any other error falls back to the loader
		return nil, false
	}
	questions, err := bank.ParseQuestions(data)
	if err != nil {
		return nil, false
	}
	return questions, true
}

func (r *BankRepository) key() string {
	return "trivia:bank:questions"
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
