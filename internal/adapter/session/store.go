package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNoSession signals that a token has no live session behind it. Callers
// treat it as "not logged in", never as a failure.
var ErrNoSession = errors.New("no active session")

// Store persists opaque session tokens mapped to user IDs. Create issues a
// token valid for the store's TTL; Get resolves a token or returns
// ErrNoSession; Delete revokes a token.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// RedisStore implements Store on Redis. Expiry is delegated to key TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, log: log}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create issues a new session token for the user.
func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.New().String()

	if err := s.client.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		s.log.Error("failed to store session", zap.Int64("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Debug("session created", zap.Int64("user_id", userID), zap.Duration("ttl", s.ttl))
	return token, nil
}

// Get resolves a session token to a user ID.
func (s *RedisStore) Get(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, ErrNoSession
	}
	if err != nil {
		s.log.Error("failed to read session", zap.Error(err))
		return 0, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		s.log.Error("corrupt session payload", zap.String("value", val), zap.Error(err))
		return 0, ErrNoSession
	}

	return userID, nil
}

// Delete revokes a session token. Revoking an unknown token is a no-op.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		s.log.Error("failed to delete session", zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemoryStore implements Store in process memory. Used when no Redis backend
// is configured (development, testing). Sessions do not survive restarts.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID    int64
	expiresAt time.Time
}

// NewMemoryStore creates an in-process session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// Create issues a new session token for the user. Abandoned sessions are
// swept here so the map does not grow for the process lifetime.
func (s *MemoryStore) Create(_ context.Context, userID int64) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked()
	s.sessions[token] = memorySession{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// purgeExpiredLocked drops sessions past their expiry. Callers hold mu.
func (s *MemoryStore) purgeExpiredLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

// Get resolves a session token to a user ID, expiring lazily.
func (s *MemoryStore) Get(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, ErrNoSession
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, ErrNoSession
	}
	return sess.userID, nil
}

// Delete revokes a session token.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
