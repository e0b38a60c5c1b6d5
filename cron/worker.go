package cron

import (
	"context"
	"fmt"
	"time"

	"neoncut/config"
	"neoncut/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt returns the asynq connection for the notification queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewConfirmationMux routes confirmation tasks to handler.
func NewConfirmationMux(handler *notification.ConfirmationHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(notification.TypeBookingConfirmed, handler)
	return mux
}

// StartConfirmationWorker starts the asynq worker that delivers booking
// confirmations. The caller owns the returned server and must Shutdown it.
func StartConfirmationWorker(ctx context.Context, handler *notification.ConfirmationHandler, logger *zap.Logger) (*asynq.Server, error) {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	mux := NewConfirmationMux(handler)

	go monitorQueueConnection(ctx, logger)

	const maxAttempts = 5
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = srv.Start(mux); err == nil {
			logger.Info("confirmation worker started")
			return srv, nil
		}
		logger.Warn("failed to start confirmation worker",
			zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempts*2) * time.Second):
		}
	}
	return nil, fmt.Errorf("confirmation worker: %w", err)
}

// monitorQueueConnection pings the queue Redis until ctx is cancelled.
func monitorQueueConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
