package booking

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"neoncut/models"

	"go.uber.org/zap"
)

// DefaultDaysAhead is the slot horizon.
const DefaultDaysAhead = 7

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var dayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var openingHoursPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

// ErrInvalidHours is returned for an hours string that is not "H:MM-H:MM".
var ErrInvalidHours = errors.New("invalid opening hours")

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hours   int
	Minutes int
}

// OpeningRange is a parsed opening-hours string.
type OpeningRange struct {
	Open  ClockTime
	Close ClockTime
}

// ParseOpeningHours parses strings like "09:00-18:00" or "9:00 - 17:30".
func ParseOpeningHours(hours string) (OpeningRange, error) {
	m := openingHoursPattern.FindStringSubmatch(hours)
	if m == nil {
		return OpeningRange{}, ErrInvalidHours
	}
	n := make([]int, 4)
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return OpeningRange{}, ErrInvalidHours
		}
		n[i] = v
	}
	r := OpeningRange{
		Open:  ClockTime{Hours: n[0], Minutes: n[1]},
		Close: ClockTime{Hours: n[2], Minutes: n[3]},
	}
	if !r.Open.valid() || !r.Close.valid() {
		return OpeningRange{}, ErrInvalidHours
	}
	return r, nil
}

// 24:00 is allowed as a closing time.
func (c ClockTime) valid() bool {
	if c.Minutes < 0 || c.Minutes > 59 || c.Hours < 0 {
		return false
	}
	return c.Hours < 24 || (c.Hours == 24 && c.Minutes == 0)
}

// SlotGenerator derives bookable slots from opening hours.
type SlotGenerator struct {
	Location    *time.Location
	Granularity time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

// NewSlotGenerator returns a generator with 15-minute granularity.
func NewSlotGenerator(loc *time.Location, now func() time.Time, logger *zap.Logger) *SlotGenerator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotGenerator{
		Location:    loc,
		Granularity: models.SlotGranularity,
		Now:         now,
		Logger:      logger,
	}
}

// GenerateSlotsForSalon returns one DaySlots per day, starting today, that
// still has at least one future slot.
func (g *SlotGenerator) GenerateSlotsForSalon(salon models.Salon, daysAhead int) []models.DaySlots {
	result := []models.DaySlots{}
	if len(salon.OpeningHours) == 0 {
		return result
	}

	now := g.Now().In(g.Location)
	for offset := 0; offset < daysAhead; offset++ {
		day := time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, g.Location)
		slots := g.generate(salon, day, now)
		if len(slots) == 0 {
			continue
		}
		result = append(result, models.DaySlots{
			Date:      day.Format(dateLayout),
			Slots:     slots,
			Available: len(slots),
		})
	}
	return result
}

// GenerateSlotsForDate returns the future slots of one day.
func (g *SlotGenerator) GenerateSlotsForDate(salon models.Salon, date time.Time) []models.Slot {
	date = date.In(g.Location)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, g.Location)
	return g.generate(salon, day, g.Now())
}

func (g *SlotGenerator) generate(salon models.Salon, day, now time.Time) []models.Slot {
	slots := []models.Slot{}

	dayName := dayNames[day.Weekday()]
	hours, ok := findOpeningHours(salon.OpeningHours, dayName)
	if !ok || hours.Closed() {
		return slots
	}

	r, err := ParseOpeningHours(hours.Hours)
	if err != nil {
		g.Logger.Debug("skipping day with unparseable opening hours",
			zap.String("salonID", salon.ID.String()),
			zap.String("day", dayName),
			zap.String("hours", hours.Hours))
		return slots
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), r.Open.Hours, r.Open.Minutes, 0, 0, g.Location)
	end := time.Date(day.Year(), day.Month(), day.Day(), r.Close.Hours, r.Close.Minutes, 0, 0, g.Location)
	stylists := availableStylists(salon)

	for t := start; t.Before(end); t = t.Add(g.Granularity) {
		if !t.After(now) {
			continue
		}
		slots = append(slots, models.Slot{
			Time:      t.Format(timeLayout),
			Datetime:  t,
			Available: true,
			Stylists:  stylists,
		})
	}
	return slots
}

// The first open entry for the day wins; a closed entry is used only when
// no open one exists.
func findOpeningHours(all []models.OpeningHours, day string) (models.OpeningHours, bool) {
	var closed *models.OpeningHours
	for i := range all {
		if all[i].Day != day {
			continue
		}
		if all[i].Open {
			return all[i], true
		}
		if closed == nil {
			closed = &all[i]
		}
	}
	if closed != nil {
		return *closed, true
	}
	return models.OpeningHours{}, false
}

// Stylists are not scheduled per slot; every stylist not explicitly marked
// unavailable is offered at every slot.
func availableStylists(salon models.Salon) []models.Stylist {
	out := []models.Stylist{}
	for _, s := range salon.Stylists {
		if s.IsAvailable() {
			out = append(out, s)
		}
	}
	return out
}
