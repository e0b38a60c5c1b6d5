package booking

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"neoncut/cache"
	"neoncut/models"

	"go.uber.org/zap"
)

// AvailabilityCacheTTL bounds how long a verdict is reused.
const AvailabilityCacheTTL = 10 * time.Minute

// AvailabilityChecker decides whether a requested slot can be booked.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, req models.BookingRequest) (bool, error)
}

// SimulatedAvailabilityChecker stands in for a real salon calendar. It
// answers after Delay and reports a slot free with probability Probability.
type SimulatedAvailabilityChecker struct {
	Probability float64
	Delay       time.Duration
	Rand        func() float64
}

func NewSimulatedAvailabilityChecker() *SimulatedAvailabilityChecker {
	return &SimulatedAvailabilityChecker{
		Probability: 0.9,
		Delay:       300 * time.Millisecond,
		Rand:        rand.Float64,
	}
}

func (s *SimulatedAvailabilityChecker) IsAvailable(ctx context.Context, _ models.BookingRequest) (bool, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-t.C:
		}
	}
	roll := rand.Float64
	if s.Rand != nil {
		roll = s.Rand
	}
	return roll() < s.Probability, nil
}

// AvailabilityCache memoises checker verdicts per salon, date and time.
type AvailabilityCache struct {
	store   cache.Store[models.AvailabilityEntry]
	checker AvailabilityChecker
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewAvailabilityCache(
	store cache.Store[models.AvailabilityEntry],
	checker AvailabilityChecker,
	timeout time.Duration,
	now func() time.Time,
	logger *zap.Logger,
) *AvailabilityCache {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityCache{
		store:   store,
		checker: checker,
		timeout: timeout,
		now:     now,
		logger:  logger,
	}
}

// CacheKey identifies one slot request. "9:30" and "09:30" share a key.
func CacheKey(salonID models.ID, date, clock string) string {
	return salonID.String() + "_" + strings.TrimSpace(date) + "_" + normalizeClock(clock)
}

// Check returns nil when the slot is available. A cached verdict younger
// than the store TTL is reused without consulting the checker. Only
// verdicts are cached; checker failures are not.
func (a *AvailabilityCache) Check(ctx context.Context, req models.BookingRequest) error {
	key := CacheKey(req.SalonID, req.Date, req.Time)

	entry, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		ok = false
	}
	if ok && a.now().Sub(entry.Timestamp) < a.store.TTL() {
		if !entry.Available {
			return NewAvailabilityError("selected time slot is no longer available", nil)
		}
		return nil
	}

	checkCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	available, err := a.checker.IsAvailable(checkCtx, req)
	if err != nil {
		a.logger.Warn("availability check failed", zap.String("key", key), zap.Error(err))
		return NewAvailabilityError("could not confirm availability, please try again", err)
	}

	if err := a.store.Set(ctx, key, models.AvailabilityEntry{Available: available, Timestamp: a.now()}); err != nil {
		a.logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
	}
	if !available {
		return NewAvailabilityError("selected time slot is no longer available", nil)
	}
	return nil
}

// Purge drops expired entries when the store supports it.
func (a *AvailabilityCache) Purge() int {
	if p, ok := a.store.(interface{ Purge() int }); ok {
		return p.Purge()
	}
	return 0
}

// Clear drops every cached verdict when the store supports it.
func (a *AvailabilityCache) Clear() {
	if c, ok := a.store.(interface{ Clear() }); ok {
		c.Clear()
	}
}
