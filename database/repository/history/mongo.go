// File: database/repository/history/mongo.go
package historyRepo

import (
	"context"
	"fmt"
	"time"

	"neoncut/database"
	"neoncut/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoHistoryRepo struct {
	coll *mongo.Collection
}

// NewMongoHistoryRepo stores one document per confirmed booking.
func NewMongoHistoryRepo() HistoryRepository {
	return &mongoHistoryRepo{
		coll: database.Database().Collection("booking_history"),
	}
}

func (r *mongoHistoryRepo) Load(ctx context.Context, owner string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "confirmedAt", Value: 1}, {Key: "datetime", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("load booking history: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode booking history: %w", err)
	}
	return bookings, nil
}

func (r *mongoHistoryRepo) Append(ctx context.Context, owner string, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(bookings))
	for i, b := range bookings {
		b.Owner = owner
		docs[i] = b
	}
	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("append booking history: %w", err)
	}
	return nil
}

// EnsureIndexes creates the owner lookup and unique booking id indexes.
func (r *mongoHistoryRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "confirmedAt", Value: 1}},
			Options: options.Index().SetName("owner_confirmed_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking history indexes: %w", err)
	}
	return nil
}
