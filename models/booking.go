package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

// BookingRequest is the caller's input to CreateBooking.
type BookingRequest struct {
	SalonID     ID     `json:"salonId"`
	TreatmentID ID     `json:"treatmentId"`
	StylistID   ID     `json:"stylistId,omitempty"`
	Date        string `json:"date"` // "YYYY-MM-DD"
	Time        string `json:"time"` // "HH:MM"
	Notes       string `json:"notes,omitempty"`
}

// Booking is a cart line item and, once confirmed, a history record.
type Booking struct {
	ID            string     `bson:"id" json:"id"`
	Owner         string     `bson:"owner" json:"-"` // session owner holding the booking
	SalonID       ID         `bson:"salonId" json:"salonId"`
	SalonName     string     `bson:"salonName" json:"salonName"`
	TreatmentID   ID         `bson:"treatmentId" json:"treatmentId"`
	TreatmentName string     `bson:"treatmentName" json:"treatmentName"`
	StylistID     ID         `bson:"stylistId,omitempty" json:"stylistId,omitempty"`
	StylistName   string     `bson:"stylistName,omitempty" json:"stylistName,omitempty"`
	Date          string     `bson:"date" json:"date"`
	Time          string     `bson:"time" json:"time"`
	Datetime      time.Time  `bson:"datetime" json:"datetime"`
	EndTime       time.Time  `bson:"endTime" json:"endTime"`
	Duration      int        `bson:"duration" json:"duration"` // minutes
	Price         float64    `bson:"price" json:"price"`
	OriginalPrice float64    `bson:"originalPrice" json:"originalPrice"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Status        string     `bson:"status" json:"status"` // pending | confirmed
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	ConfirmedAt   *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
}

// BookingSummary aggregates the pending cart.
type BookingSummary struct {
	TotalBookings     int       `json:"totalBookings"`
	TotalPrice        float64   `json:"totalPrice"`
	TotalSavings      float64   `json:"totalSavings"`
	EstimatedDuration int       `json:"estimatedDuration"` // minutes
	Bookings          []Booking `json:"bookings"`
}
