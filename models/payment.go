package models

import "time"

const (
	PaymentMethodCard  = "card"
	PaymentMethodSwish = "swish"
	PaymentMethodCash  = "cash"

	PaymentStatusCompleted = "completed"
)

// PaymentData carries the checkout form.
type PaymentData struct {
	Method          string `json:"method"` // "card", "swish" or "cash"
	CardNumber      string `json:"cardNumber,omitempty"`
	ExpiryDate      string `json:"expiryDate,omitempty"`
	CVC             string `json:"cvc,omitempty"`
	Phone           string `json:"phone,omitempty"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"` // tokenised card for the Stripe processor
	Email           string `json:"email,omitempty"`
}

// PaymentReceipt is returned by a successful payment.
type PaymentReceipt struct {
	ID        string    `bson:"id" json:"id"`
	Method    string    `bson:"method" json:"method"`
	Amount    float64   `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency,omitempty" json:"currency,omitempty"`
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// CheckoutResult is the outcome of a successful checkout.
type CheckoutResult struct {
	Success  bool           `json:"success"`
	Bookings []Booking      `json:"bookings"`
	Payment  PaymentReceipt `json:"payment"`
}
