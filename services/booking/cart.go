package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	salonRepo "neoncut/database/repository/salon"
	"neoncut/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the request and appends a pending booking to the
// cart. Checks run in order: required fields, future datetime, salon,
// treatment, stylist, availability.
func (s *Session) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	const op = "createBooking"
	e := s.engine

	if err := s.ensureNotCheckingOut(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	at, err := validateBookingRequest(req, e.location, e.now())
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	req.Date = at.Format(dateLayout)
	req.Time = at.Format(timeLayout)

	salon, err := e.salons.GetSalonByID(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrSalonNotFound) {
			return nil, s.fail(ctx, op, NewNotFoundError("invalid salon"))
		}
		return nil, s.fail(ctx, op, err)
	}
	treatment, ok := salon.FindTreatment(req.TreatmentID)
	if !ok {
		return nil, s.fail(ctx, op, NewNotFoundError("invalid treatment"))
	}
	var stylist *models.Stylist
	if req.StylistID != "" {
		st, ok := salon.FindStylist(req.StylistID)
		if !ok {
			return nil, s.fail(ctx, op, NewNotFoundError("invalid stylist"))
		}
		stylist = &st
	}

	if err := e.availability.Check(ctx, req); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	booking := buildBooking(s.owner, req, at, salon, treatment, stylist, e.now())

	s.mu.Lock()
	if s.checkingOut {
		s.mu.Unlock()
		return nil, s.fail(ctx, op, errCheckoutInProgress())
	}
	s.cart = append(s.cart, booking)
	s.lastSeen = e.now()
	cart := cloneBookings(s.cart)
	s.mu.Unlock()

	e.logger.Info("booking added to cart",
		zap.String("owner", s.owner),
		zap.String("bookingID", booking.ID),
		zap.String("salonID", booking.SalonID.String()),
		zap.Time("datetime", booking.Datetime))
	s.emitCart(ctx, cart)
	return &booking, nil
}

// RemoveBookingFromCart removes the pending booking with the given id.
func (s *Session) RemoveBookingFromCart(ctx context.Context, bookingID string) error {
	const op = "removeBookingFromCart"

	s.mu.Lock()
	if s.checkingOut {
		s.mu.Unlock()
		return s.fail(ctx, op, errCheckoutInProgress())
	}
	idx := -1
	for i, b := range s.cart {
		if b.ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return s.fail(ctx, op, NewNotFoundError("booking not found in cart"))
	}
	s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
	s.lastSeen = s.engine.now()
	cart := cloneBookings(s.cart)
	s.mu.Unlock()

	s.emitCart(ctx, cart)
	return nil
}

// ClearCart empties the cart. Clearing an empty cart still emits an update.
func (s *Session) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	if s.checkingOut {
		s.mu.Unlock()
		return s.fail(ctx, "clearCart", errCheckoutInProgress())
	}
	s.cart = []models.Booking{}
	s.lastSeen = s.engine.now()
	s.mu.Unlock()

	s.emitCart(ctx, []models.Booking{})
	return nil
}

// GetBookingSummary aggregates the cart, or returns nil when it is empty.
func (s *Session) GetBookingSummary() *models.BookingSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.cart)
}

func summarize(cart []models.Booking) *models.BookingSummary {
	if len(cart) == 0 {
		return nil
	}
	sum := &models.BookingSummary{
		TotalBookings: len(cart),
		Bookings:      cloneBookings(cart),
	}
	for _, b := range cart {
		sum.TotalPrice += b.Price
		sum.TotalSavings += b.OriginalPrice - b.Price
		sum.EstimatedDuration += b.Duration
	}
	return sum
}

func (s *Session) ensureNotCheckingOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkingOut {
		return errCheckoutInProgress()
	}
	return nil
}

func errCheckoutInProgress() error {
	return NewValidationError("checkout in progress")
}

// validateBookingRequest checks required fields and that the requested
// wall-clock time, read in loc, lies strictly after now.
func validateBookingRequest(req models.BookingRequest, loc *time.Location, now time.Time) (time.Time, error) {
	var missing []string
	if req.SalonID == "" {
		missing = append(missing, "salonId")
	}
	if req.TreatmentID == "" {
		missing = append(missing, "treatmentId")
	}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(req.Time) == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return time.Time{}, NewValidationError("missing required booking information", missing...)
	}

	at, err := time.ParseInLocation(dateLayout+" "+timeLayout, strings.TrimSpace(req.Date)+" "+normalizeClock(req.Time), loc)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date or time", "date", "time")
	}
	if !at.After(now) {
		return time.Time{}, NewValidationError("booking time must be in the future")
	}
	return at, nil
}

// normalizeClock pads "9:30" to "09:30".
func normalizeClock(clock string) string {
	clock = strings.TrimSpace(clock)
	if i := strings.IndexByte(clock, ':'); i == 1 {
		return "0" + clock
	}
	return clock
}

func buildBooking(owner string, req models.BookingRequest, at time.Time, salon *models.Salon, t models.Treatment, st *models.Stylist, now time.Time) models.Booking {
	duration := t.EffectiveDuration()
	b := models.Booking{
		ID:            "B_" + uuid.New().String(),
		Owner:         owner,
		SalonID:       salon.ID,
		SalonName:     salon.Name,
		TreatmentID:   t.ID,
		TreatmentName: t.Name,
		Date:          at.Format(dateLayout),
		Time:          at.Format(timeLayout),
		Datetime:      at,
		EndTime:       at.Add(time.Duration(duration) * time.Minute),
		Duration:      duration,
		Price:         t.Price,
		OriginalPrice: t.EffectiveOriginalPrice(),
		Notes:         req.Notes,
		Status:        models.BookingStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if st != nil {
		b.StylistID = st.ID
		b.StylistName = st.Name
	}
	return b
}
