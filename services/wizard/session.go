package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"slotbook/models"
)

// SessionStore persists the in-progress wizard selection between step
// requests. Exactly one state exists per scope and session key; saving
// overwrites, never merges, so starting a new run implicitly discards
// an unfinished one.
type SessionStore interface {
	// Load returns the stored state, or (nil, nil) when no run is in
	// progress for this session.
	Load(ctx context.Context, scope, key string) (*models.WizardState, error)
	Save(ctx context.Context, scope, key string, state *models.WizardState) error
	Clear(ctx context.Context, scope, key string) error
}

// RedisSessionStore keeps wizard state in Redis, JSON-marshalled with a
// TTL so abandoned runs expire with the session.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisSessionStore constructs a SessionStore backed by the given client.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(scope, key string) string {
	return fmt.Sprintf("wizard:%s:%s", scope, key)
}

func (s *RedisSessionStore) Load(ctx context.Context, scope, key string) (*models.WizardState, error) {
	data, err := s.Client.Get(ctx, sessionKey(scope, key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}
	var state models.WizardState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to parse wizard session: %w", err)
	}
	return &state, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, scope, key string, state *models.WizardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(scope, key), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store wizard session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, scope, key string) error {
	if err := s.Client.Del(ctx, sessionKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("failed to clear wizard session: %w", err)
	}
	return nil
}
