package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-quiz-service/internal/bank"

	"golang.org/x/sync/singleflight"
)

const bankKey = "bank"

// BankRepository caches the question bank with a TTL to avoid reloading it for every game.
// A non-positive TTL keeps the bank until Invalidate.
type BankRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    *bank.Bank
	expiresAt time.Time

	// generation is bumped by Invalidate; a load started under an older
	// generation is not cached.
	generation uint64
}

func NewBankRepository(loader QuestionLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (*bank.Bank, error) {
	if b, ok := r.fresh(r.clock()); ok {
		return b, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		now := r.clock()
		if b, ok := r.fresh(now); ok {
			return b, nil
		}
		r.mu.RLock()
		gen := r.generation
		r.mu.RUnlock()

		questions, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		b, err := bank.New(questions)
		if err != nil {
			return nil, err
		}

		expiresAt := now.Add(r.ttlWithJitter())
		r.mu.Lock()
		if r.generation == gen {
			r.cached = b
			r.expiresAt = expiresAt
		}
		r.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*bank.Bank), nil
}

// Invalidate drops the cached bank so the next game reloads it.
func (r *BankRepository) Invalidate(_ context.Context) error {
	r.mu.Lock()
	r.cached = nil
	r.generation++
	r.mu.Unlock()
	// callers arriving now must not join a load that may predate the change
	r.sf.Forget(bankKey)
	return nil
}

func (r *BankRepository) fresh(now time.Time) (*bank.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached != nil && (r.ttl <= 0 || r.expiresAt.After(now)) {
		return r.cached, true
	}
	return nil, false
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
