package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"neoncut/models"

	"go.uber.org/zap"
)

// Session holds one owner's pending cart and confirmed history.
type Session struct {
	engine *Engine
	owner  string

	mu          sync.Mutex
	cart        []models.Booking
	history     []models.Booking
	checkingOut bool
	lastSeen    time.Time
}

func newSession(e *Engine, owner string, history []models.Booking) *Session {
	if history == nil {
		history = []models.Booking{}
	}
	return &Session{
		engine:   e,
		owner:    owner,
		cart:     []models.Booking{},
		history:  history,
		lastSeen: e.now(),
	}
}

func (s *Session) Owner() string {
	return s.owner
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.engine.now()
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.checkingOut && s.lastSeen.Before(cutoff)
}

// Cart returns a copy of the pending bookings in insertion order.
func (s *Session) Cart() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBookings(s.cart)
}

// History returns a copy of the confirmed bookings in confirmation order.
func (s *Session) History() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBookings(s.history)
}

func (s *Session) emitCart(ctx context.Context, cart []models.Booking) {
	s.engine.publish(ctx, models.BookingEvent{
		Type:  models.EventCartUpdated,
		Owner: s.owner,
		Cart:  cart,
		Count: len(cart),
	})
}

// fail emits a bookingError event and returns err unchanged.
func (s *Session) fail(ctx context.Context, op string, err error) error {
	s.engine.logger.Debug("booking operation failed",
		zap.String("owner", s.owner), zap.String("op", op), zap.Error(err))
	s.engine.publish(ctx, models.BookingEvent{
		Type:    models.EventBookingError,
		Owner:   s.owner,
		Context: op,
		Message: userMessage(err),
	})
	return err
}

func userMessage(err error) string {
	var be *Error
	if errors.As(err, &be) {
		if len(be.Fields) > 0 {
			return be.Message + ": " + strings.Join(be.Fields, ", ")
		}
		return be.Message
	}
	return err.Error()
}

func cloneBookings(in []models.Booking) []models.Booking {
	out := make([]models.Booking, len(in))
	copy(out, in)
	return out
}
