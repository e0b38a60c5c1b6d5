package historyRepo

import (
	"context"
	"testing"
	"time"

	"neoncut/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func confirmed(id string) models.Booking {
	at := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	return models.Booking{
		ID:          id,
		SalonID:     "s1",
		TreatmentID: "t1",
		Date:        "2025-03-04",
		Time:        "09:30",
		Price:       300,
		Status:      models.BookingStatusConfirmed,
		ConfirmedAt: &at,
	}
}

func TestRedisHistory_EmptyWhenAbsent(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewRedisHistoryRepo(client, zap.NewNop())

	got, err := repo.Load(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRedisHistory_AppendAccumulates(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisHistoryRepo(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "owner-1", []models.Booking{confirmed("B1")}))
	require.NoError(t, repo.Append(ctx, "owner-1", []models.Booking{confirmed("B2"), confirmed("B3")}))
	require.NoError(t, repo.Append(ctx, "owner-1", nil))

	assert.True(t, mr.Exists(HistoryKey+":owner-1"))

	got, err := repo.Load(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"B1", "B2", "B3"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, models.BookingStatusConfirmed, got[2].Status)

	other, err := repo.Load(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRedisHistory_CorruptRecordDegradesToEmpty(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisHistoryRepo(client, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, mr.Set(HistoryKey, "not-json"))

	got, err := repo.Load(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, repo.Append(ctx, "", []models.Booking{confirmed("B1")}))
	got, err = repo.Load(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].ID)
}
