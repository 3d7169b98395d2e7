package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"latexorder-bot/internal/session"
)

const defaultTTL = 30 * time.Minute

var _ session.SnapshotStore = (*Storage)(nil)

type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis client
func New(addr, password string, db int, ttl time.Duration) *Storage {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Storage{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			PoolSize:     100,
			MinIdleConns: 10,
		}),
		ttl: ttl,
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Storage) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func (s *Storage) Save(ctx context.Context, chatID int64, snap session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.client.Set(ctx, buildSessionKey(chatID), data, s.ttl).Err()
}

// Load returns nil without error when the chat has no snapshot.
func (s *Storage) Load(ctx context.Context, chatID int64) (*session.Snapshot, error) {
	data, err := s.client.Get(ctx, buildSessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal failure: %w", err)
	}
	return &snap, nil
}

func (s *Storage) Drop(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, buildSessionKey(chatID)).Err()
}

func buildSessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}
