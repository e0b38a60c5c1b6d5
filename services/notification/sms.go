package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"neoncut/models"

	"github.com/hibiken/asynq"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SMSSender delivers a text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *TwilioSender) SendSMS(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}

// ConfirmationHandler processes queued confirmation tasks.
type ConfirmationHandler struct {
	SMS    SMSSender // nil disables SMS delivery
	Logger *zap.Logger
}

// ProcessTask implements asynq.Handler.
func (h *ConfirmationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p models.ConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		// A malformed payload will never succeed.
		return fmt.Errorf("invalid confirmation payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if h.SMS == nil || p.Phone == "" {
		return LogNotifier{Logger: logger}.NotifyBookingsConfirmed(ctx, p)
	}

	if err := h.SMS.SendSMS(ctx, p.Phone, ConfirmationMessage(p)); err != nil {
		logger.Warn("confirmation sms failed", zap.String("owner", p.Owner), zap.Error(err))
		return err
	}
	logger.Info("confirmation sms sent", zap.String("owner", p.Owner), zap.Int("bookings", len(p.Bookings)))
	return nil
}

// ConfirmationMessage renders the SMS body for a checkout.
func ConfirmationMessage(p models.ConfirmationPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "NeonCut: %d booking(s) confirmed.\n", len(p.Bookings))
	for _, bk := range p.Bookings {
		fmt.Fprintf(&b, "%s %s, %s at %s\n", bk.Date, bk.Time, bk.TreatmentName, bk.SalonName)
	}
	fmt.Fprintf(&b, "Paid %.2f %s (%s)", p.Receipt.Amount, strings.ToUpper(orDefault(p.Receipt.Currency, "sek")), p.Receipt.ID)
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
