package models

import "time"

const (
	EventCartUpdated      = "bookingCartUpdated"
	EventBookingError     = "bookingError"
	EventBookingConfirmed = "bookingConfirmed"
)

// BookingEvent is a lifecycle notification for the presentation layer.
type BookingEvent struct {
	Type      string    `json:"type"`
	Owner     string    `json:"owner"`
	Cart      []Booking `json:"cart,omitempty"`
	Count     int       `json:"count"`
	Context   string    `json:"context,omitempty"` // operation that failed
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfirmationPayload is queued after a successful checkout.
type ConfirmationPayload struct {
	Owner     string         `json:"owner"`
	Phone     string         `json:"phone,omitempty"`
	Email     string         `json:"email,omitempty"`
	Bookings  []Booking      `json:"bookings"`
	Receipt   PaymentReceipt `json:"receipt"`
	CreatedAt time.Time      `json:"createdAt"`
}
