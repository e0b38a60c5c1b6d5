package booking

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"neoncut/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentProcessor charges the cart total. A nil error means the money was
// taken and the receipt is final.
type PaymentProcessor interface {
	Charge(ctx context.Context, data models.PaymentData, amount float64) (*models.PaymentReceipt, error)
}

var errPaymentDeclined = errors.New("payment declined")

// SimulatedPaymentProcessor succeeds with probability SuccessRate after Delay.
type SimulatedPaymentProcessor struct {
	SuccessRate float64
	Delay       time.Duration
	Rand        func() float64
	Now         func() time.Time
}

func NewSimulatedPaymentProcessor() *SimulatedPaymentProcessor {
	return &SimulatedPaymentProcessor{
		SuccessRate: 0.95,
		Delay:       2 * time.Second,
		Rand:        rand.Float64,
		Now:         time.Now,
	}
}

func (p *SimulatedPaymentProcessor) Charge(ctx context.Context, data models.PaymentData, amount float64) (*models.PaymentReceipt, error) {
	if p.Delay > 0 {
		t := time.NewTimer(p.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, NewPaymentError("payment timed out, please try again", ctx.Err())
		case <-t.C:
		}
	}

	roll := rand.Float64
	if p.Rand != nil {
		roll = p.Rand
	}
	if roll() >= p.SuccessRate {
		return nil, NewPaymentError("payment failed, please try again", errPaymentDeclined)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return &models.PaymentReceipt{
		ID:        newReceiptID(),
		Method:    data.Method,
		Amount:    amount,
		Status:    models.PaymentStatusCompleted,
		Timestamp: now(),
	}, nil
}

// StripePaymentProcessor charges tokenised cards through Stripe
// PaymentIntents. Other methods go to Fallback.
type StripePaymentProcessor struct {
	Currency string
	Fallback PaymentProcessor
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewStripePaymentProcessor(currency string, fallback PaymentProcessor, logger *zap.Logger) *StripePaymentProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripePaymentProcessor{
		Currency: strings.ToLower(currency),
		Fallback: fallback,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (p *StripePaymentProcessor) Charge(ctx context.Context, data models.PaymentData, amount float64) (*models.PaymentReceipt, error) {
	if data.Method != models.PaymentMethodCard {
		if p.Fallback == nil {
			return nil, NewPaymentError("unsupported payment method: "+data.Method, nil)
		}
		return p.Fallback.Charge(ctx, data, amount)
	}
	if data.PaymentMethodID == "" {
		return nil, NewValidationError("card payments require a tokenised payment method", "paymentMethodId")
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(toMinorUnits(amount)),
		Currency:           stripe.String(p.Currency),
		PaymentMethod:      stripe.String(data.PaymentMethodID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	if data.Email != "" {
		params.ReceiptEmail = stripe.String(data.Email)
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.New().String())

	pi, err := paymentintent.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			p.Logger.Warn("stripe charge rejected",
				zap.String("code", string(serr.Code)),
				zap.String("message", serr.Msg))
			return nil, NewPaymentError("payment failed, please try again", err)
		}
		p.Logger.Error("stripe charge failed", zap.Error(err))
		return nil, NewPaymentError("payment failed, please try again", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		p.Logger.Warn("stripe payment intent not settled",
			zap.String("paymentIntent", pi.ID),
			zap.String("status", string(pi.Status)))
		return nil, NewPaymentError("payment was not completed", errPaymentDeclined)
	}

	p.Logger.Info("stripe charge succeeded", zap.String("paymentIntent", pi.ID), zap.Float64("amount", amount))
	return &models.PaymentReceipt{
		ID:        "PAY_" + pi.ID,
		Method:    data.Method,
		Amount:    amount,
		Currency:  p.Currency,
		Status:    models.PaymentStatusCompleted,
		Timestamp: p.Now(),
	}, nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func newReceiptID() string {
	return "PAY_" + uuid.New().String()
}

// validatePaymentData checks the method-specific fields before any charge.
func validatePaymentData(data models.PaymentData) error {
	switch data.Method {
	case "":
		return NewValidationError("payment method is required", "method")
	case models.PaymentMethodCard:
		if data.PaymentMethodID != "" {
			return nil
		}
		var missing []string
		if strings.TrimSpace(data.CardNumber) == "" {
			missing = append(missing, "cardNumber")
		}
		if strings.TrimSpace(data.ExpiryDate) == "" {
			missing = append(missing, "expiryDate")
		}
		if strings.TrimSpace(data.CVC) == "" {
			missing = append(missing, "cvc")
		}
		if len(missing) > 0 {
			return NewValidationError("incomplete card details", missing...)
		}
	case models.PaymentMethodSwish:
		if strings.TrimSpace(data.Phone) == "" {
			return NewValidationError("phone number is required for Swish", "phone")
		}
	case models.PaymentMethodCash:
	default:
		return NewValidationError("unsupported payment method: " + data.Method)
	}
	return nil
}
