package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/internal/session/repository"
)

func (r *implRepository) key(sessionID string) string {
	return r.keyPrefix + sessionID
}

func (r *implRepository) Load(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if sessionID == "" {
		return nil, repository.ErrEmptySessionID
	}

	raw, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis session repository: get: %w", err)
	}

	turns, err := repository.Decode(raw)
	if err != nil {
		r.l.Warnf(ctx, "redis session repository: dropping unreadable session: %v", err)
		return []model.Turn{}, nil
	}
	return turns, nil
}

func (r *implRepository) Save(ctx context.Context, sessionID string, turns []model.Turn, ttl time.Duration) error {
	if sessionID == "" {
		return repository.ErrEmptySessionID
	}

	raw, err := repository.Encode(turns)
	if err != nil {
		return fmt.Errorf("redis session repository: encode: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sessionID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis session repository: set: %w", err)
	}
	return nil
}

func (r *implRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return repository.ErrEmptySessionID
	}
	if err := r.client.Expire(ctx, r.key(sessionID), ttl).Err(); err != nil {
		return fmt.Errorf("redis session repository: expire: %w", err)
	}
	return nil
}

func (r *implRepository) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return repository.ErrEmptySessionID
	}
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis session repository: del: %w", err)
	}
	return nil
}
