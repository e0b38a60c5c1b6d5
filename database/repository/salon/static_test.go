package salonRepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"neoncut/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salonsJSON = `{
  "salons": [
    {
      "id": 1,
      "name": "Neon Cut Södermalm",
      "openingHours": [{"day": "monday", "open": true, "hours": "09:00-18:00"}],
      "treatments": [{"id": 10, "name": "Klippning", "price": 450, "originalPrice": 500, "duration": 45}],
      "stylists": [{"id": "st-1", "name": "Alex"}, {"id": "st-2", "name": "Sam", "available": false}]
    },
    {"id": "2", "name": "Barber Vasastan", "treatments": []},
    {"name": "missing id"},
    {"id": 4, "name": ""}
  ]
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salons.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSalonRepo_LoadsNumericAndStringIDs(t *testing.T) {
	repo, err := NewFileSalonRepo(writeFile(t, salonsJSON))
	require.NoError(t, err)
	ctx := context.Background()

	salons, err := repo.ListSalons(ctx)
	require.NoError(t, err)
	require.Len(t, salons, 2, "records without id or name are skipped")

	s, err := repo.GetSalonByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Neon Cut Södermalm", s.Name)

	tr, ok := s.FindTreatment("10")
	require.True(t, ok)
	assert.Equal(t, 45, tr.Duration)
	assert.Equal(t, 500.0, tr.EffectiveOriginalPrice())

	st, ok := s.FindStylist("st-2")
	require.True(t, ok)
	assert.False(t, st.IsAvailable())

	_, err = repo.GetSalonByID(ctx, "2")
	assert.NoError(t, err)
}

func TestFileSalonRepo_UnknownSalon(t *testing.T) {
	repo, err := NewFileSalonRepo(writeFile(t, salonsJSON))
	require.NoError(t, err)

	_, err = repo.GetSalonByID(context.Background(), "404")
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestFileSalonRepo_BadInput(t *testing.T) {
	_, err := NewFileSalonRepo(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = NewFileSalonRepo(writeFile(t, "{"))
	assert.Error(t, err)
}

func TestStaticSalonRepo_ReturnsCopies(t *testing.T) {
	repo := NewStaticSalonRepo([]models.Salon{{ID: "s1", Name: "One"}})
	ctx := context.Background()

	s, err := repo.GetSalonByID(ctx, "s1")
	require.NoError(t, err)
	s.Name = "changed"

	again, err := repo.GetSalonByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "One", again.Name)
}
