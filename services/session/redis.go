package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"calbot/models"

	"github.com/go-redis/redis/v8"
)

// sessionDocument is the value stored under each session key.
type sessionDocument struct {
	State      models.Session `json:"state"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	TTLSeconds int64          `json:"ttlSeconds"`
}

// RedisStore keeps sessions in Redis with a per-key TTL and guards writes
// with WATCH/MULTI on the session key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	doc, err := s.load(ctx, s.client, Key(userID))
	if err != nil {
		return nil, err
	}
	return &doc.State, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, sess *models.Session) error {
	key := Key(userID)
	var saved models.Session

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		var current int64
		doc, err := s.load(ctx, tx, key)
		switch {
		case err == nil:
			current = doc.State.Version
		case errors.Is(err, ErrNotFound):
		default:
			return err
		}
		if current != sess.Version {
			return ErrConflict
		}

		now := s.now()
		saved = *sess
		saved.Version++
		saved.UpdatedAt = now
		data, err := json.Marshal(sessionDocument{
			State:      saved,
			UpdatedAt:  now,
			TTLSeconds: int64(s.ttl / time.Second),
		})
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	sess.Version, sess.UpdatedAt = saved.Version, saved.UpdatedAt
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, Key(userID)).Err()
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) load(ctx context.Context, c getter, key string) (*sessionDocument, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var doc sessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &doc, nil
}
