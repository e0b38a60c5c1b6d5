package cron

import (
	"context"
	"testing"
	"time"

	"neoncut/cache"
	historyRepo "neoncut/database/repository/history"
	salonRepo "neoncut/database/repository/salon"
	"neoncut/models"
	"neoncut/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newEngine(t *testing.T, c *clock) *booking.Engine {
	t.Helper()
	salon := models.Salon{
		ID:           "1",
		Name:         "Neon Cuts",
		OpeningHours: []models.OpeningHours{{Day: "monday", Open: true, Hours: "09:00-10:00"}},
		Treatments:   []models.Treatment{{ID: "10", Name: "Klippning", Price: 300}},
	}
	engine, err := booking.NewEngine(booking.Deps{
		Salons:       salonRepo.NewStaticSalonRepo([]models.Salon{salon}),
		History:      historyRepo.NewMemoryHistoryRepo(),
		Availability: cache.NewTTLCache[models.AvailabilityEntry](booking.AvailabilityCacheTTL, c.Now),
		Checker:      &booking.SimulatedAvailabilityChecker{Probability: 1},
		Payments:     &booking.SimulatedPaymentProcessor{SuccessRate: 1},
		Location:     time.UTC,
		Now:          c.Now,
	})
	require.NoError(t, err)
	require.NoError(t, engine.Init(context.Background()))
	return engine
}

func jobByName(t *testing.T, jobs []Job, name string) Job {
	t.Helper()
	for _, j := range jobs {
		if j.Name == name {
			return j
		}
	}
	t.Fatalf("job %s not registered", name)
	return Job{}
}

func TestBookingJobs_RefreshDropsPastSlots(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 3, 9, 20, 0, 0, time.UTC)}
	engine := newEngine(t, c)
	jobs := BookingJobs(engine, 30*time.Minute, zap.NewNop())
	require.Len(t, engine.GetAvailableSlotsForSalon("1", "2025-03-03"), 2)

	c.t = c.t.Add(20 * time.Minute)
	jobByName(t, jobs, "refresh-slots").Run()

	slots := engine.GetAvailableSlotsForSalon("1", "2025-03-03")
	require.Len(t, slots, 1)
	assert.Equal(t, "09:45", slots[0].Time)
}

func TestBookingJobs_SweepsIdleSessions(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 3, 9, 20, 0, 0, time.UTC)}
	engine := newEngine(t, c)
	jobs := BookingJobs(engine, 30*time.Minute, zap.NewNop())

	_, err := engine.Session(context.Background(), "idle")
	require.NoError(t, err)
	c.t = c.t.Add(31 * time.Minute)
	jobByName(t, jobs, "sweep-idle-sessions").Run()

	assert.Equal(t, 0, engine.SessionCount())
}

func TestBookingJobs_PurgeAvailabilityCache(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 3, 9, 20, 0, 0, time.UTC)}
	engine := newEngine(t, c)
	jobs := BookingJobs(engine, 30*time.Minute, zap.NewNop())

	s, err := engine.Session(context.Background(), "u1")
	require.NoError(t, err)
	_, err = s.CreateBooking(context.Background(), models.BookingRequest{SalonID: "1", TreatmentID: "10", Date: "2025-03-03", Time: "09:45"})
	require.NoError(t, err)

	c.t = c.t.Add(11 * time.Minute)
	jobByName(t, jobs, "purge-availability-cache").Run()
	assert.Equal(t, 0, engine.PurgeAvailabilityCache())
}

func TestStartScheduler(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 3, 9, 20, 0, 0, time.UTC)}
	engine := newEngine(t, c)

	sched, err := StartScheduler(BookingJobs(engine, time.Minute, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	defer sched.Stop()

	assert.Len(t, sched.Entries(), 3)
}

func TestStartScheduler_RejectsBadSpec(t *testing.T) {
	_, err := StartScheduler([]Job{{Name: "bad", Spec: "every now and then", Run: func() {}}}, zap.NewNop())
	assert.Error(t, err)
}
