package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// TokenStore remembers issued access tokens until they expire or are
// revoked. A token whose id is not stored is treated as revoked.
type TokenStore interface {
	Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, userID, tokenID string) (bool, error)
	Delete(ctx context.Context, userID, tokenID string) error
}

func accessTokenKey(userID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID, tokenID)
}

// =============================================================================
// Redis
// =============================================================================

type redisTokenStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewRedisTokenStore(redisClient *redis.Client, log *logrus.Logger) TokenStore {
	return &redisTokenStore{redisClient: redisClient, log: log}
}

func (s *redisTokenStore) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if err := s.redisClient.Set(ctx, accessTokenKey(userID, tokenID), "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store access token in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *redisTokenStore) Exists(ctx context.Context, userID, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, accessTokenKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, userID, tokenID string) error {
	if err := s.redisClient.Del(ctx, accessTokenKey(userID, tokenID)).Err(); err != nil {
		s.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}
	return nil
}

// =============================================================================
// In-memory
// =============================================================================

// memoryTokenStore serves single-instance deployments without Redis. Tokens
// are lost on restart, which logs every user out.
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // key -> expiry
	now    func() time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *memoryTokenStore) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, expiry := range s.tokens {
		if !now.Before(expiry) {
			delete(s.tokens, key)
		}
	}
	s.tokens[accessTokenKey(userID, tokenID)] = now.Add(ttl)
	return nil
}

func (s *memoryTokenStore) Exists(ctx context.Context, userID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[accessTokenKey(userID, tokenID)]
	return ok && s.now().Before(expiry), nil
}

func (s *memoryTokenStore) Delete(ctx context.Context, userID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, accessTokenKey(userID, tokenID))
	return nil
}
