package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"neoncut/cache"
	historyRepo "neoncut/database/repository/history"
	salonRepo "neoncut/database/repository/salon"
	"neoncut/models"
	"neoncut/services/notification"

	"go.uber.org/zap"
)

// Deps wires an Engine. Salons, History, Availability, Checker and Payments
// are required.
type Deps struct {
	Salons       salonRepo.SalonRepository
	History      historyRepo.HistoryRepository
	Availability cache.Store[models.AvailabilityEntry]
	Checker      AvailabilityChecker
	Payments     PaymentProcessor
	Events       EventPublisher
	Notifier     notification.Notifier
	Logger       *zap.Logger

	Location            *time.Location
	Now                 func() time.Time
	DaysAhead           int
	AvailabilityTimeout time.Duration
	PaymentTimeout      time.Duration
}

// Engine owns the slot index, the availability cache and one Session per
// owner. It is safe for concurrent use.
type Engine struct {
	salons       salonRepo.SalonRepository
	history      historyRepo.HistoryRepository
	slots        *SlotGenerator
	availability *AvailabilityCache
	payments     PaymentProcessor
	events       EventPublisher
	notifier     notification.Notifier
	logger       *zap.Logger

	location       *time.Location
	now            func() time.Time
	daysAhead      int
	paymentTimeout time.Duration

	mu             sync.RWMutex
	initialized    bool
	availableSlots map[models.ID][]models.DaySlots

	sessMu   sync.Mutex
	sessions map[string]*Session
}

func NewEngine(d Deps) (*Engine, error) {
	if d.Salons == nil || d.History == nil || d.Availability == nil || d.Checker == nil || d.Payments == nil {
		return nil, fmt.Errorf("booking engine initialization error: missing dependency")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.DaysAhead <= 0 {
		d.DaysAhead = DefaultDaysAhead
	}
	if d.Events == nil {
		d.Events = MultiPublisher{}
	}

	return &Engine{
		salons:         d.Salons,
		history:        d.History,
		slots:          NewSlotGenerator(d.Location, d.Now, d.Logger),
		availability:   NewAvailabilityCache(d.Availability, d.Checker, d.AvailabilityTimeout, d.Now, d.Logger),
		payments:       d.Payments,
		events:         d.Events,
		notifier:       d.Notifier,
		logger:         d.Logger,
		location:       d.Location,
		now:            d.Now,
		daysAhead:      d.DaysAhead,
		paymentTimeout: d.PaymentTimeout,
		availableSlots: make(map[models.ID][]models.DaySlots),
		sessions:       make(map[string]*Session),
	}, nil
}

// Init builds the slot index. Calling it again is a no-op.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.RLock()
	done := e.initialized
	e.mu.RUnlock()
	if done {
		return nil
	}
	if err := e.RefreshSlots(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	e.initialized = true
	e.mu.Unlock()
	e.logger.Info("booking engine initialized")
	return nil
}

// Initialized reports whether Init has completed.
func (e *Engine) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// RefreshSlots regenerates the slot index for every salon.
func (e *Engine) RefreshSlots(ctx context.Context) error {
	salons, err := e.salons.ListSalons(ctx)
	if err != nil {
		return fmt.Errorf("load salons: %w", err)
	}

	index := make(map[models.ID][]models.DaySlots, len(salons))
	for _, s := range salons {
		index[s.ID] = e.slots.GenerateSlotsForSalon(s, e.daysAhead)
	}

	e.mu.Lock()
	e.availableSlots = index
	e.mu.Unlock()
	e.logger.Debug("slot index refreshed", zap.Int("salons", len(salons)))
	return nil
}

// GenerateSlotsForSalon derives slots for a salon without touching the index.
func (e *Engine) GenerateSlotsForSalon(salon models.Salon, daysAhead int) []models.DaySlots {
	return e.slots.GenerateSlotsForSalon(salon, daysAhead)
}

// GetAvailableSlotsForSalon returns the indexed slots of one salon day, or
// an empty list for an unknown salon or date.
func (e *Engine) GetAvailableSlotsForSalon(salonID models.ID, date string) []models.Slot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, day := range e.availableSlots[salonID] {
		if day.Date == date {
			out := make([]models.Slot, len(day.Slots))
			copy(out, day.Slots)
			return out
		}
	}
	return []models.Slot{}
}

// SalonSlots returns every indexed day of one salon.
func (e *Engine) SalonSlots(salonID models.ID) []models.DaySlots {
	e.mu.RLock()
	defer e.mu.RUnlock()
	days := e.availableSlots[salonID]
	out := make([]models.DaySlots, len(days))
	copy(out, days)
	return out
}

func (e *Engine) ListSalons(ctx context.Context) ([]models.Salon, error) {
	return e.salons.ListSalons(ctx)
}

// GetSalon maps a missing salon to a NotFound error.
func (e *Engine) GetSalon(ctx context.Context, id models.ID) (*models.Salon, error) {
	salon, err := e.salons.GetSalonByID(ctx, id)
	if err != nil {
		if errors.Is(err, salonRepo.ErrSalonNotFound) {
			return nil, NewNotFoundError("salon not found")
		}
		return nil, err
	}
	return salon, nil
}

// Session returns the owner's session, creating it and loading its history
// on first use.
func (e *Engine) Session(ctx context.Context, owner string) (*Session, error) {
	if !e.Initialized() {
		return nil, ErrNotInitialized
	}

	e.sessMu.Lock()
	if s, ok := e.sessions[owner]; ok {
		e.sessMu.Unlock()
		s.touch()
		return s, nil
	}
	e.sessMu.Unlock()

	history, err := e.history.Load(ctx, owner)
	if err != nil {
		e.logger.Warn("failed to load booking history, starting empty",
			zap.String("owner", owner), zap.Error(err))
		history = nil
	}

	e.sessMu.Lock()
	defer e.sessMu.Unlock()
	// Another request may have created it while history was loading.
	if s, ok := e.sessions[owner]; ok {
		s.touch()
		return s, nil
	}
	s := newSession(e, owner, history)
	e.sessions[owner] = s
	return s, nil
}

// DestroySession drops the owner's session and its pending cart. History is
// kept in the repository.
func (e *Engine) DestroySession(owner string) bool {
	e.sessMu.Lock()
	defer e.sessMu.Unlock()
	if _, ok := e.sessions[owner]; !ok {
		return false
	}
	delete(e.sessions, owner)
	return true
}

// SweepIdleSessions drops sessions untouched for longer than idle. Sessions
// in checkout are kept.
func (e *Engine) SweepIdleSessions(idle time.Duration) int {
	cutoff := e.now().Add(-idle)
	e.sessMu.Lock()
	defer e.sessMu.Unlock()

	removed := 0
	for owner, s := range e.sessions {
		if s.idleSince(cutoff) {
			delete(e.sessions, owner)
			removed++
		}
	}
	if removed > 0 {
		e.logger.Info("idle sessions swept", zap.Int("removed", removed))
	}
	return removed
}

// SessionCount reports the number of live sessions.
func (e *Engine) SessionCount() int {
	e.sessMu.Lock()
	defer e.sessMu.Unlock()
	return len(e.sessions)
}

// PurgeAvailabilityCache drops expired availability verdicts.
func (e *Engine) PurgeAvailabilityCache() int {
	return e.availability.Purge()
}

// Destroy clears every session, the slot index and the in-process
// availability cache. The engine must be initialized again before reuse.
func (e *Engine) Destroy() {
	e.availability.Clear()

	e.sessMu.Lock()
	e.sessions = make(map[string]*Session)
	e.sessMu.Unlock()

	e.mu.Lock()
	e.availableSlots = make(map[models.ID][]models.DaySlots)
	e.initialized = false
	e.mu.Unlock()
	e.logger.Info("booking engine destroyed")
}

func (e *Engine) publish(ctx context.Context, event models.BookingEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}
	if err := e.events.Publish(ctx, event); err != nil {
		e.logger.Warn("failed to publish booking event",
			zap.String("type", event.Type), zap.String("owner", event.Owner), zap.Error(err))
	}
}
