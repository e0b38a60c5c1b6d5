package models

import "time"

// SlotGranularity is the spacing between generated slots.
const SlotGranularity = 15 * time.Minute

// Slot is a bookable time point at a salon.
type Slot struct {
	Time      string    `json:"time"`     // "HH:MM"
	Datetime  time.Time `json:"datetime"` // absolute start
	Available bool      `json:"available"`
	Stylists  []Stylist `json:"stylists"`
}

// DaySlots holds the future slots of one salon day.
type DaySlots struct {
	Date      string `json:"date"` // "YYYY-MM-DD"
	Slots     []Slot `json:"slots"`
	Available int    `json:"available"` // len(Slots)
}

// AvailabilityEntry memoises one availability verdict.
type AvailabilityEntry struct {
	Available bool      `json:"available"`
	Timestamp time.Time `json:"timestamp"`
}
