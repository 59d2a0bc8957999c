package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"bijou/internal/models"
)

// SignupStore — session-подобное хранилище PendingSignup: save/get/clear,
// по ключу сессии регистрации. Ровно одна запись на сессию; повторный Save
// перезаписывает прежнюю.
type SignupStore interface {
	Save(ctx context.Context, sessionID string, p *models.PendingSignup) error
	Get(ctx context.Context, sessionID string) (*models.PendingSignup, error)
	Clear(ctx context.Context, sessionID string) error

	// WithLock сериализует read-modify-write по одной сессии, чтобы два
	// конкурентных verify не потеряли инкремент tries.
	WithLock(sessionID string, fn func() error) error
}

const (
	signupKeyPrefix = "signup:pending:"
	lockStripes     = 64
)

type redisSignupStore struct {
	rdb *redis.Client
	ttl time.Duration
	mu  [lockStripes]sync.Mutex
}

// NewSignupStore держит записи чуть дольше expires_at: протухание
// обнаруживает сам flow, чтобы отличить "expired" от "absent".
func NewSignupStore(rdb *redis.Client, ttl time.Duration) SignupStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &redisSignupStore{rdb: rdb, ttl: ttl}
}

func signupKey(sessionID string) string { return signupKeyPrefix + sessionID }

func (s *redisSignupStore) Save(ctx context.Context, sessionID string, p *models.PendingSignup) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending signup: %w", err)
	}
	if err := s.rdb.Set(ctx, signupKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save pending signup: %w", err)
	}
	return nil
}

// Get возвращает (nil, nil), если записи нет.
func (s *redisSignupStore) Get(ctx context.Context, sessionID string) (*models.PendingSignup, error) {
	raw, err := s.rdb.Get(ctx, signupKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending signup: %w", err)
	}
	var p models.PendingSignup
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal pending signup: %w", err)
	}
	return &p, nil
}

func (s *redisSignupStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, signupKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear pending signup: %w", err)
	}
	return nil
}

func (s *redisSignupStore) WithLock(sessionID string, fn func() error) error {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	m := &s.mu[h.Sum32()%lockStripes]
	m.Lock()
	defer m.Unlock()
	return fn()
}
