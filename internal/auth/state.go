package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StateTTL bounds how long an issued login state stays redeemable.
const StateTTL = 10 * time.Minute

// StateStore issues CSRF state tokens for the OAuth login redirect and
// verifies them on callback. Tokens are single-use: Consume reports true
// at most once per issued state.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

// RedisStateStore keeps states in Redis so verification survives process
// restarts and works across replicas.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore connects to Redis at redisURL and verifies
// connectivity.
func NewRedisStateStore(ctx context.Context, redisURL string) (*RedisStateStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("auth: redis ping failed: %w", err)
	}

	return &RedisStateStore{client: client}, nil
}

func (s *RedisStateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, stateKey(state), 1, StateTTL).Err(); err != nil {
		return "", err
	}
	return state, nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	n, err := s.client.Del(ctx, stateKey(state)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStateStore) Close() error { return s.client.Close() }

func stateKey(state string) string {
	return "jobnexus:oauth:state:" + state
}

// MemoryStateStore is the in-process fallback used when no Redis is
// configured. States do not survive a restart.
type MemoryStateStore struct {
	mu     sync.Mutex
	expiry map[string]time.Time
	now    func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *MemoryStateStore) Issue(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for state, exp := range s.expiry {
		if now.After(exp) {
			delete(s.expiry, state)
		}
	}

	state := uuid.NewString()
	s.expiry[state] = now.Add(StateTTL)
	return state, nil
}

func (s *MemoryStateStore) Consume(ctx context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiry[state]
	if !ok {
		return false, nil
	}
	delete(s.expiry, state)
	return !s.now().After(exp), nil
}
