// File: database/repository/salon/interface.go
package salonRepo

import (
	"context"
	"errors"

	"neoncut/models"
)

// ErrSalonNotFound is returned when no salon matches the id.
var ErrSalonNotFound = errors.New("salon not found")

// SalonRepository is the read-only salon data source.
type SalonRepository interface {
	GetSalonByID(ctx context.Context, id models.ID) (*models.Salon, error)
	ListSalons(ctx context.Context) ([]models.Salon, error)
}
