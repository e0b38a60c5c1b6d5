package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"neoncut/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeSMS struct {
	to, body string
	err      error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.to, f.body = to, body
	return f.err
}

func payload() models.ConfirmationPayload {
	return models.ConfirmationPayload{
		Owner: "u1",
		Phone: "+46701234567",
		Bookings: []models.Booking{
			{ID: "B_1", SalonName: "Neon Cuts", TreatmentName: "Klippning", Date: "2025-03-04", Time: "10:00", Price: 300},
			{ID: "B_2", SalonName: "Neon Cuts", TreatmentName: "Färgning", Date: "2025-03-04", Time: "11:00", Price: 450},
		},
		Receipt:   models.PaymentReceipt{ID: "PAY_1", Method: "swish", Amount: 750, Status: models.PaymentStatusCompleted},
		CreatedAt: time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC),
	}
}

func TestAsynqNotifier_EnqueuesTask(t *testing.T) {
	q := &fakeEnqueuer{}
	n := NewAsynqNotifier(q, zap.NewNop())

	require.NoError(t, n.NotifyBookingsConfirmed(context.Background(), payload()))

	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeBookingConfirmed, q.tasks[0].Type())
	var got models.ConfirmationPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &got))
	assert.Equal(t, payload(), got)
}

func TestAsynqNotifier_PropagatesQueueErrors(t *testing.T) {
	n := NewAsynqNotifier(&fakeEnqueuer{err: errors.New("redis down")}, nil)

	err := n.NotifyBookingsConfirmed(context.Background(), payload())
	assert.ErrorContains(t, err, "redis down")
}

func TestConfirmationHandler_SendsSMS(t *testing.T) {
	sms := &fakeSMS{}
	h := &ConfirmationHandler{SMS: sms}
	task, _, err := NewBookingConfirmedTask(payload())
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))

	assert.Equal(t, "+46701234567", sms.to)
	assert.Contains(t, sms.body, "2 booking(s) confirmed")
	assert.Contains(t, sms.body, "2025-03-04 11:00, Färgning at Neon Cuts")
	assert.Contains(t, sms.body, "750.00 SEK (PAY_1)")
}

func TestConfirmationHandler_WithoutSMSOrPhoneLogs(t *testing.T) {
	p := payload()
	p.Phone = ""
	task, _, err := NewBookingConfirmedTask(p)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	sms := &fakeSMS{}
	assert.NoError(t, (&ConfirmationHandler{SMS: sms, Logger: zap.New(core)}).ProcessTask(context.Background(), task))
	assert.Empty(t, sms.to)
	entries := logs.FilterMessage("bookings confirmed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, p.Owner, entries[0].ContextMap()["owner"])

	assert.NoError(t, (&ConfirmationHandler{}).ProcessTask(context.Background(), task))
}

func TestConfirmationHandler_Errors(t *testing.T) {
	h := &ConfirmationHandler{SMS: &fakeSMS{err: errors.New("twilio 500")}}
	task, _, err := NewBookingConfirmedTask(payload())
	require.NoError(t, err)
	assert.Error(t, h.ProcessTask(context.Background(), task))

	err = h.ProcessTask(context.Background(), asynq.NewTask(TypeBookingConfirmed, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.NotifyBookingsConfirmed(context.Background(), payload()))
}
