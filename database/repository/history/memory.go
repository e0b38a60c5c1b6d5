package historyRepo

import (
	"context"
	"sync"

	"neoncut/models"
)

type memoryHistoryRepo struct {
	mu      sync.RWMutex
	records map[string][]models.Booking
}

// NewMemoryHistoryRepo keeps history in process memory. It does not survive
// a restart.
func NewMemoryHistoryRepo() HistoryRepository {
	return &memoryHistoryRepo{records: make(map[string][]models.Booking)}
}

func (r *memoryHistoryRepo) Load(_ context.Context, owner string) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Booking, len(r.records[keyFor(owner)]))
	copy(out, r.records[keyFor(owner)])
	return out, nil
}

func (r *memoryHistoryRepo) Append(_ context.Context, owner string, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := keyFor(owner)
	r.records[key] = append(r.records[key], bookings...)
	return nil
}
