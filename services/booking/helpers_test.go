package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"neoncut/cache"
	historyRepo "neoncut/database/repository/history"
	salonRepo "neoncut/database/repository/salon"
	"neoncut/models"

	"github.com/stretchr/testify/require"
)

var testZone = time.FixedZone("CET", 3600)

// Monday 2025-03-03 09:20 local.
var testNow = time.Date(2025, 3, 3, 9, 20, 0, 0, testZone)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock { return &testClock{t: testNow} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type stubChecker struct {
	mu        sync.Mutex
	available bool
	err       error
	calls     int
}

func (s *stubChecker) IsAvailable(_ context.Context, _ models.BookingRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.available, s.err
}

func (s *stubChecker) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubChecker) Set(available bool, err error) {
	s.mu.Lock()
	s.available, s.err = available, err
	s.mu.Unlock()
}

type stubPayments struct {
	mu      sync.Mutex
	err     error
	calls   int
	amounts []float64
	started chan struct{}
	release chan struct{}
	panics  bool
}

func (p *stubPayments) Charge(ctx context.Context, data models.PaymentData, amount float64) (*models.PaymentReceipt, error) {
	p.mu.Lock()
	p.calls++
	p.amounts = append(p.amounts, amount)
	err := p.err
	started, release := p.started, p.release
	panics := p.panics
	p.mu.Unlock()

	if panics {
		panic("payment processor crashed")
	}

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &models.PaymentReceipt{
		ID:        newReceiptID(),
		Method:    data.Method,
		Amount:    amount,
		Status:    models.PaymentStatusCompleted,
		Timestamp: testNow,
	}, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []models.ConfirmationPayload
}

func (n *recordingNotifier) NotifyBookingsConfirmed(_ context.Context, p models.ConfirmationPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, p)
	return nil
}

func testSalon() models.Salon {
	unavailable := false
	return models.Salon{
		ID:   "s1",
		Name: "Neon Cuts",
		OpeningHours: []models.OpeningHours{
			{Day: "monday", Open: true, Hours: "09:00-10:00"},
			{Day: "tuesday", Open: true, Hours: "09:00-18:00"},
			{Day: "wednesday", Open: true, Hours: "9:00 - 17:30"},
			{Day: "thursday", Open: true, Hours: "10:00-19:00"},
			{Day: "friday", Open: true, Hours: "by appointment"},
			{Day: "saturday", Open: true, Hours: models.ClosedHours},
			{Day: "sunday", Open: false, Hours: "10:00-14:00"},
		},
		Treatments: []models.Treatment{
			{ID: "t1", Name: "Klippning", Price: 300, Duration: 30},
			{ID: "t2", Name: "Färgning", Price: 450, OriginalPrice: 500, Duration: 90},
			{ID: "t3", Name: "Skäggtrim", Price: 150},
		},
		Stylists: []models.Stylist{
			{ID: "st1", Name: "Anna"},
			{ID: "st2", Name: "Erik", Available: &unavailable},
		},
	}
}

type testEnv struct {
	engine   *Engine
	clock    *testClock
	checker  *stubChecker
	payments *stubPayments
	history  historyRepo.HistoryRepository
	bus      *EventBus
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		clock:    newTestClock(),
		checker:  &stubChecker{available: true},
		payments: &stubPayments{},
		history:  historyRepo.NewMemoryHistoryRepo(),
		bus:      NewEventBus(64),
		notifier: &recordingNotifier{},
	}
	engine, err := NewEngine(Deps{
		Salons:       salonRepo.NewStaticSalonRepo([]models.Salon{testSalon()}),
		History:      env.history,
		Availability: cache.NewTTLCache[models.AvailabilityEntry](AvailabilityCacheTTL, env.clock.Now),
		Checker:      env.checker,
		Payments:     env.payments,
		Events:       env.bus,
		Notifier:     env.notifier,
		Location:     testZone,
		Now:          env.clock.Now,
	})
	require.NoError(t, err)
	require.NoError(t, engine.Init(context.Background()))
	env.engine = engine
	return env
}

func (env *testEnv) session(t *testing.T, owner string) *Session {
	t.Helper()
	s, err := env.engine.Session(context.Background(), owner)
	require.NoError(t, err)
	return s
}

func request(treatment models.ID, date, clock string) models.BookingRequest {
	return models.BookingRequest{SalonID: "s1", TreatmentID: treatment, Date: date, Time: clock}
}

// drain returns every event already buffered on ch.
func drain(ch <-chan models.BookingEvent) []models.BookingEvent {
	var out []models.BookingEvent
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

var cashPayment = models.PaymentData{Method: models.PaymentMethodCash}
