package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in redis.
const keyPrefix = "session:"

// RedisStore persists sessions in redis with native TTL expiry.
type RedisStore[Data any] struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore[Data any](client *redis.Client) *RedisStore[Data] {
	return &RedisStore[Data]{client: client}
}

// sessionRecord is the serialized form of a session.
type sessionRecord[Data any] struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	Data      Data      `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetByToken returns the session for the token or ErrNotFound.
func (s *RedisStore[Data]) GetByToken(ctx context.Context, token string) (*Session[Data], error) {
	raw, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec sessionRecord[Data]
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &Session[Data]{
		ID:        rec.ID,
		Token:     rec.Token,
		UserID:    rec.UserID,
		Data:      rec.Data,
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// Save stores the session with a redis TTL matching its expiry.
func (s *RedisStore[Data]) Save(ctx context.Context, sess *Session[Data]) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.Token)
	}

	raw, err := json.Marshal(sessionRecord[Data]{
		ID:        sess.ID,
		Token:     sess.Token,
		UserID:    sess.UserID,
		Data:      sess.Data,
		ExpiresAt: sess.ExpiresAt,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.Token, raw, ttl).Err(); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	sess.modified = false
	return nil
}

// Delete removes the session for the token.
func (s *RedisStore[Data]) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op for redis; keys expire through native TTL.
func (s *RedisStore[Data]) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
