// File: database/repository/history/redis.go
package historyRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"neoncut/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const maxAppendRetries = 5

type redisHistoryRepo struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisHistoryRepo stores each owner's history as one JSON array.
func NewRedisHistoryRepo(client *redis.Client, logger *zap.Logger) HistoryRepository {
	return &redisHistoryRepo{client: client, logger: logger}
}

func (r *redisHistoryRepo) Load(ctx context.Context, owner string) ([]models.Booking, error) {
	return r.read(ctx, r.client, keyFor(owner))
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisHistoryRepo) read(ctx context.Context, g getter, key string) ([]models.Booking, error) {
	raw, err := g.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Booking{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load booking history: %w", err)
	}
	var bookings []models.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		r.logger.Warn("corrupt booking history, starting empty", zap.String("key", key), zap.Error(err))
		return []models.Booking{}, nil
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// Append rewrites the array under WATCH so concurrent appends are not lost.
func (r *redisHistoryRepo) Append(ctx context.Context, owner string, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	key := keyFor(owner)

	txf := func(tx *redis.Tx) error {
		current, err := r.read(ctx, tx, key)
		if err != nil {
			return err
		}
		data, err := json.Marshal(append(current, bookings...))
		if err != nil {
			return fmt.Errorf("encode booking history: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxAppendRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("append booking history: %w", err)
	}
	return fmt.Errorf("append booking history: too much contention on %s", key)
}
