package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"neoncut/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking_AddsPendingSnapshot(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")
	events, unsubscribe := env.bus.Subscribe("u1")
	defer unsubscribe()

	req := request("t2", "2025-03-04", "10:00")
	req.StylistID = "st1"
	req.Notes = "short on the sides"
	b, err := sess.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, "Neon Cuts", b.SalonName)
	assert.Equal(t, "Färgning", b.TreatmentName)
	assert.Equal(t, "Anna", b.StylistName)
	assert.Equal(t, 450.0, b.Price)
	assert.Equal(t, 500.0, b.OriginalPrice)
	assert.Equal(t, 90, b.Duration)
	assert.True(t, time.Date(2025, 3, 4, 10, 0, 0, 0, testZone).Equal(b.Datetime))
	assert.True(t, time.Date(2025, 3, 4, 11, 30, 0, 0, testZone).Equal(b.EndTime))
	assert.Equal(t, "short on the sides", b.Notes)
	assert.Nil(t, b.ConfirmedAt)

	assert.Equal(t, []models.Booking{*b}, sess.Cart())

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, models.EventCartUpdated, got[0].Type)
	assert.Equal(t, 1, got[0].Count)
}

func TestCreateBooking_DefaultsFromTreatment(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")

	b, err := sess.CreateBooking(context.Background(), request("t3", "2025-03-04", "9:30"))
	require.NoError(t, err)

	assert.Equal(t, models.DefaultTreatmentDuration, b.Duration)
	assert.Equal(t, b.Price, b.OriginalPrice)
	assert.Equal(t, "09:30", b.Time)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")
	events, unsubscribe := env.bus.Subscribe("u1")
	defer unsubscribe()

	_, err := sess.CreateBooking(context.Background(), models.BookingRequest{SalonID: "s1", Date: "2025-03-04"})

	require.ErrorIs(t, err, ErrValidation)
	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, []string{"treatmentId", "time"}, be.Fields)
	assert.Empty(t, sess.Cart())

	got := drain(events)
	require.Len(t, got, 1)
	assert.Equal(t, models.EventBookingError, got[0].Type)
	assert.Equal(t, "createBooking", got[0].Context)
	assert.Contains(t, got[0].Message, "treatmentId")
}

func TestCreateBooking_RejectsPastBeforeLookingUpSalon(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")

	cases := []models.BookingRequest{
		{SalonID: "s1", TreatmentID: "t1", Date: "2025-03-03", Time: "09:20"},
		{SalonID: "s1", TreatmentID: "t1", Date: "2025-03-02", Time: "12:00"},
		{SalonID: "unknown", TreatmentID: "unknown", Date: "2025-03-03", Time: "09:00"},
	}
	for _, req := range cases {
		_, err := sess.CreateBooking(context.Background(), req)
		assert.ErrorIs(t, err, ErrValidation, "%+v", req)
	}
	assert.Equal(t, 0, env.checker.Calls())
}

func TestCreateBooking_InvalidDateFormat(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")

	_, err := sess.CreateBooking(context.Background(), request("t1", "04/03/2025", "10:00"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBooking_NotFound(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")
	ctx := context.Background()

	_, err := sess.CreateBooking(ctx, models.BookingRequest{SalonID: "nope", TreatmentID: "t1", Date: "2025-03-04", Time: "10:00"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = sess.CreateBooking(ctx, request("nope", "2025-03-04", "10:00"))
	assert.ErrorIs(t, err, ErrNotFound)

	req := request("t1", "2025-03-04", "10:00")
	req.StylistID = "ghost"
	_, err = sess.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, sess.Cart())
	assert.Equal(t, 0, env.checker.Calls())
}

func TestCreateBooking_Unavailable(t *testing.T) {
	env := newTestEnv(t)
	env.checker.Set(false, nil)
	sess := env.session(t, "u1")

	_, err := sess.CreateBooking(context.Background(), request("t1", "2025-03-04", "10:00"))

	assert.ErrorIs(t, err, ErrAvailability)
	assert.Empty(t, sess.Cart())
}

func TestCreateBooking_UnpaddedTimeReusesCachedVerdict(t *testing.T) {
	env := newTestEnv(t)
	env.checker.Set(false, nil)
	sess := env.session(t, "u1")
	ctx := context.Background()

	_, err := sess.CreateBooking(ctx, request("t1", "2025-03-04", "09:30"))
	require.ErrorIs(t, err, ErrAvailability)

	env.checker.Set(true, nil)
	_, err = sess.CreateBooking(ctx, request("t1", "2025-03-04", "9:30"))

	assert.ErrorIs(t, err, ErrAvailability)
	assert.Equal(t, 1, env.checker.Calls())
	assert.Empty(t, sess.Cart())
}

func TestCreateBooking_StoresNormalizedTime(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")

	b, err := sess.CreateBooking(context.Background(), request("t1", " 2025-03-04", "9:30"))

	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", b.Date)
	assert.Equal(t, "09:30", b.Time)
}

func TestCreateBooking_EngineNotInitialized(t *testing.T) {
	env := newTestEnv(t)
	env.engine.Destroy()

	_, err := env.engine.Session(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRemoveBookingFromCart(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")
	ctx := context.Background()

	first, err := sess.CreateBooking(ctx, request("t1", "2025-03-04", "10:00"))
	require.NoError(t, err)
	second, err := sess.CreateBooking(ctx, request("t2", "2025-03-04", "11:00"))
	require.NoError(t, err)

	require.NoError(t, sess.RemoveBookingFromCart(ctx, first.ID))
	assert.Equal(t, []models.Booking{*second}, sess.Cart())

	err = sess.RemoveBookingFromCart(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, sess.Cart(), 1)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")
	ctx := context.Background()
	events, unsubscribe := env.bus.Subscribe("u1")
	defer unsubscribe()

	_, err := sess.CreateBooking(ctx, request("t1", "2025-03-04", "10:00"))
	require.NoError(t, err)
	require.NoError(t, sess.ClearCart(ctx))
	require.NoError(t, sess.ClearCart(ctx))

	assert.Empty(t, sess.Cart())
	got := drain(events)
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[2].Count)
}

func TestGetBookingSummary(t *testing.T) {
	env := newTestEnv(t)
	sess := env.session(t, "u1")
	ctx := context.Background()

	assert.Nil(t, sess.GetBookingSummary())

	_, err := sess.CreateBooking(ctx, request("t1", "2025-03-04", "10:00"))
	require.NoError(t, err)
	_, err = sess.CreateBooking(ctx, request("t2", "2025-03-04", "11:00"))
	require.NoError(t, err)

	sum := sess.GetBookingSummary()
	require.NotNil(t, sum)
	assert.Equal(t, 2, sum.TotalBookings)
	assert.Equal(t, 750.0, sum.TotalPrice)
	assert.Equal(t, 50.0, sum.TotalSavings)
	assert.Equal(t, 120, sum.EstimatedDuration)
	assert.Len(t, sum.Bookings, 2)
}

func TestSessions_AreIsolatedPerOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.session(t, "a")
	b := env.session(t, "b")

	_, err := a.CreateBooking(ctx, request("t1", "2025-03-04", "10:00"))
	require.NoError(t, err)

	assert.Len(t, a.Cart(), 1)
	assert.Empty(t, b.Cart())

	again := env.session(t, "a")
	assert.Same(t, a, again)
}

func TestSweepIdleSessions(t *testing.T) {
	env := newTestEnv(t)
	env.session(t, "old")
	env.clock.Advance(20 * time.Minute)
	env.session(t, "fresh")
	env.clock.Advance(15 * time.Minute)

	removed := env.engine.SweepIdleSessions(30 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, env.engine.SessionCount())
}

func TestDestroySession(t *testing.T) {
	env := newTestEnv(t)
	env.session(t, "u1")

	assert.True(t, env.engine.DestroySession("u1"))
	assert.False(t, env.engine.DestroySession("u1"))
	assert.Equal(t, 0, env.engine.SessionCount())
}
