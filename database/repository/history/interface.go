// File: database/repository/history/interface.go
package historyRepo

import (
	"context"

	"neoncut/models"
)

// HistoryKey is the fixed key the booking history lives under.
const HistoryKey = "neoncut_booking_history"

// HistoryRepository is the append-only store of confirmed bookings.
type HistoryRepository interface {
	// Load returns the owner's full history. A missing or unreadable record
	// yields an empty history.
	Load(ctx context.Context, owner string) ([]models.Booking, error)
	Append(ctx context.Context, owner string, bookings []models.Booking) error
}

func keyFor(owner string) string {
	if owner == "" {
		return HistoryKey
	}
	return HistoryKey + ":" + owner
}
