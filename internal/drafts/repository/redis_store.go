package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
)

const (
	sessionKeyPrefix = "g2w:draft:" // g2w:draft:{id} -> session JSON
	uploadKeySuffix  = ":upload"    // g2w:draft:{id}:upload -> attachment bytes
	submitKeySuffix  = ":submitting"
)

// RedisStore keeps sessions in Redis so several service instances can share them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore with the given session TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) sessionKey(id string) string { return sessionKeyPrefix + id }
func (s *RedisStore) uploadKey(id string) string  { return sessionKeyPrefix + id + uploadKeySuffix }
func (s *RedisStore) submitKey(id string) string  { return sessionKeyPrefix + id + submitKeySuffix }

func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, state []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(id), state, s.ttl)
	// Keep the attachment alive as long as the session.
	pipe.Expire(ctx, s.uploadKey(id), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.sessionKey(id), s.uploadKey(id), s.submitKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) exists(ctx context.Context, id string) error {
	n, err := s.client.Exists(ctx, s.sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) GetUpload(ctx context.Context, id string) ([]byte, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.uploadKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return data, nil
}

func (s *RedisStore) PutUpload(ctx context.Context, id string, data []byte) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.uploadKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteUpload(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.uploadKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

func (s *RedisStore) AcquireSubmit(ctx context.Context, id string) (bool, error) {
	if err := s.exists(ctx, id); err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, s.submitKey(id), time.Now().UnixMilli(), submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set submit flag: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) ReleaseSubmit(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.submitKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to clear submit flag: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
