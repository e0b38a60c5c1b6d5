package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"neoncut/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeBookingConfirmed is the asynq task type for confirmation messages.
const TypeBookingConfirmed = "booking:confirmed"

// Notifier is told about bookings confirmed by a checkout.
type Notifier interface {
	NotifyBookingsConfirmed(ctx context.Context, payload models.ConfirmationPayload) error
}

// LogNotifier only records confirmations in the log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) NotifyBookingsConfirmed(_ context.Context, p models.ConfirmationPayload) error {
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("bookings confirmed",
		zap.String("owner", p.Owner),
		zap.Int("bookings", len(p.Bookings)),
		zap.String("receipt", p.Receipt.ID),
		zap.Float64("amount", p.Receipt.Amount))
	return nil
}

// Enqueuer is the part of *asynq.Client used by AsynqNotifier.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier queues confirmation tasks for the background worker.
type AsynqNotifier struct {
	client Enqueuer
	logger *zap.Logger
}

func NewAsynqNotifier(client Enqueuer, logger *zap.Logger) *AsynqNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqNotifier{client: client, logger: logger}
}

func (n *AsynqNotifier) NotifyBookingsConfirmed(ctx context.Context, p models.ConfirmationPayload) error {
	task, opts, err := NewBookingConfirmedTask(p)
	if err != nil {
		return err
	}
	info, err := n.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeBookingConfirmed, err)
	}
	n.logger.Debug("confirmation task queued",
		zap.String("taskID", info.ID),
		zap.String("owner", p.Owner))
	return nil
}

// NewBookingConfirmedTask builds the queued task for a confirmation payload.
func NewBookingConfirmedTask(p models.ConfirmationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmed, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}
