// File: database/repository/salon/static.go
package salonRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"neoncut/models"
)

type staticSalonRepo struct {
	salons []models.Salon
	byID   map[models.ID]int
}

// NewStaticSalonRepo serves a fixed set of salons held in memory.
func NewStaticSalonRepo(salons []models.Salon) SalonRepository {
	r := &staticSalonRepo{
		salons: make([]models.Salon, 0, len(salons)),
		byID:   make(map[models.ID]int, len(salons)),
	}
	for _, s := range salons {
		if s.ID == "" {
			continue
		}
		r.byID[s.ID] = len(r.salons)
		r.salons = append(r.salons, s)
	}
	return r
}

// salonFile mirrors data/salons.json.
type salonFile struct {
	Salons []models.Salon `json:"salons"`
}

// NewFileSalonRepo loads salons from a JSON file of the form {"salons": [...]}.
// Records without an id or name are skipped.
func NewFileSalonRepo(path string) (SalonRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read salon data %s: %w", path, err)
	}
	var f salonFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse salon data %s: %w", path, err)
	}
	valid := make([]models.Salon, 0, len(f.Salons))
	for _, s := range f.Salons {
		if s.ID == "" || s.Name == "" {
			continue
		}
		valid = append(valid, s)
	}
	return NewStaticSalonRepo(valid), nil
}

func (r *staticSalonRepo) GetSalonByID(_ context.Context, id models.ID) (*models.Salon, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrSalonNotFound
	}
	salon := r.salons[i]
	return &salon, nil
}

func (r *staticSalonRepo) ListSalons(_ context.Context) ([]models.Salon, error) {
	out := make([]models.Salon, len(r.salons))
	copy(out, r.salons)
	return out, nil
}
