package booking

import (
	"context"
	"errors"

	"neoncut/models"

	"go.uber.org/zap"
)

// ProcessPayment charges the cart total and, on success, confirms every
// pending booking at once, moves them to history and empties the cart. On
// any failure the cart is left exactly as it was.
func (s *Session) ProcessPayment(ctx context.Context, data models.PaymentData) (*models.CheckoutResult, error) {
	const op = "processPayment"
	e := s.engine

	s.mu.Lock()
	if s.checkingOut {
		s.mu.Unlock()
		return nil, s.fail(ctx, op, errCheckoutInProgress())
	}
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return nil, s.fail(ctx, op, NewValidationError("no bookings to pay for"))
	}
	if err := validatePaymentData(data); err != nil {
		s.mu.Unlock()
		return nil, s.fail(ctx, op, err)
	}
	pending := cloneBookings(s.cart)
	s.checkingOut = true
	s.mu.Unlock()

	// Unlock the cart if we leave without reaching either outcome below.
	unlocked := false
	defer func() {
		if !unlocked {
			s.mu.Lock()
			s.checkingOut = false
			s.mu.Unlock()
		}
	}()

	amount := summarize(pending).TotalPrice
	e.logger.Info("processing payment",
		zap.String("owner", s.owner),
		zap.String("method", data.Method),
		zap.Int("bookings", len(pending)),
		zap.Float64("amount", amount))

	payCtx := ctx
	var cancel context.CancelFunc = func() {}
	if e.paymentTimeout > 0 {
		payCtx, cancel = context.WithTimeout(ctx, e.paymentTimeout)
	}
	defer cancel()
	receipt, err := e.payments.Charge(payCtx, data, amount)
	if err == nil && receipt == nil {
		err = NewPaymentError("payment processor returned no receipt", nil)
	}
	if err != nil {
		s.mu.Lock()
		s.checkingOut = false
		unlocked = true
		s.mu.Unlock()
		var be *Error
		if !errors.As(err, &be) {
			err = NewPaymentError("payment failed, please try again", err)
		}
		e.logger.Warn("payment failed", zap.String("owner", s.owner), zap.Error(err))
		return nil, s.fail(ctx, op, err)
	}

	// The charge went through; finish even if the caller has gone away.
	ctx = context.WithoutCancel(ctx)

	now := e.now()
	confirmed := make([]models.Booking, len(pending))
	for i, b := range pending {
		b.Owner = s.owner
		b.Status = models.BookingStatusConfirmed
		b.UpdatedAt = now
		confirmedAt := now
		b.ConfirmedAt = &confirmedAt
		confirmed[i] = b
	}

	s.mu.Lock()
	s.history = append(s.history, confirmed...)
	s.cart = []models.Booking{}
	s.checkingOut = false
	unlocked = true
	s.lastSeen = now
	s.mu.Unlock()

	if err := e.history.Append(ctx, s.owner, confirmed); err != nil {
		e.logger.Error("failed to persist booking history",
			zap.String("owner", s.owner), zap.String("receipt", receipt.ID), zap.Error(err))
	}

	s.emitCart(ctx, []models.Booking{})
	e.publish(ctx, models.BookingEvent{
		Type:  models.EventBookingConfirmed,
		Owner: s.owner,
		Cart:  cloneBookings(confirmed),
		Count: len(confirmed),
	})

	if e.notifier != nil {
		payload := models.ConfirmationPayload{
			Owner:     s.owner,
			Phone:     data.Phone,
			Email:     data.Email,
			Bookings:  cloneBookings(confirmed),
			Receipt:   *receipt,
			CreatedAt: now,
		}
		if err := e.notifier.NotifyBookingsConfirmed(ctx, payload); err != nil {
			e.logger.Warn("failed to queue confirmation", zap.String("owner", s.owner), zap.Error(err))
		}
	}

	e.logger.Info("checkout completed",
		zap.String("owner", s.owner),
		zap.String("receipt", receipt.ID),
		zap.Int("bookings", len(confirmed)))

	return &models.CheckoutResult{
		Success:  true,
		Bookings: confirmed,
		Payment:  *receipt,
	}, nil
}
