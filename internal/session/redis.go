package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Priyanshut972/Weatherapp/internal/models"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 10

var ErrConflict = errors.New("session update conflict")

// RedisStore keeps session state in Redis so several instances can serve the
// same browser. Updates use WATCH/MULTI and retry on conflict.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(id string) string { return "weatherapp:session:" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (models.UIState, bool, error) {
	return load(ctx, s.rdb, key(id))
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(st *models.UIState) error) (models.UIState, error) {
	k := key(id)
	var out models.UIState
	txf := func(tx *redis.Tx) error {
		st, _, err := load(ctx, tx, k)
		if err != nil {
			return err
		}
		if err := fn(&st); err != nil {
			out = st
			return err
		}
		b, err := json.Marshal(st)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, b, s.ttl)
			return nil
		})
		if err == nil {
			out = st
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, k)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			slog.Debug("session update retry", "session", id, "attempt", i+1)
			continue
		}
		return out, err
	}
	return out, fmt.Errorf("%w: %s", ErrConflict, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, k string) (models.UIState, bool, error) {
	b, err := c.Get(ctx, k).Bytes()
	if err == redis.Nil {
		return models.UIState{}, false, nil
	}
	if err != nil {
		return models.UIState{}, false, err
	}
	var st models.UIState
	if err := json.Unmarshal(b, &st); err != nil {
		return models.UIState{}, false, fmt.Errorf("decoding session %s: %w", k, err)
	}
	return st, true, nil
}
