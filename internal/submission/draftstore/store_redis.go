package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ouvidoria/internal/submission"
)

// RedisStore persists drafts in Redis with a TTL, so a draft survives the
// login redirect and process restarts alike.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func draftKey(key string) string {
	return "ouvidoria:draft:" + key
}

func (s *RedisStore) Save(ctx context.Context, key string, draft submission.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (submission.Draft, error) {
	payload, err := s.client.Get(ctx, draftKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return submission.Draft{}, ErrNotFound
		}
		return submission.Draft{}, fmt.Errorf("load draft: %w", err)
	}
	var draft submission.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return submission.Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return draft, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, draftKey(key)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
