// File: database/repository/salon/mongo.go
package salonRepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"neoncut/database"
	"neoncut/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSalonRepo struct {
	coll *mongo.Collection
}

// NewMongoSalonRepo constructs a SalonRepository over the "salons" collection.
func NewMongoSalonRepo() SalonRepository {
	return &mongoSalonRepo{
		coll: database.Database().Collection("salons"),
	}
}

func (r *mongoSalonRepo) GetSalonByID(ctx context.Context, id models.ID) (*models.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var salon models.Salon
	err := r.coll.FindOne(ctx, bson.M{"id": bson.M{"$in": idFilterValues(id)}}).Decode(&salon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSalonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find salon %s: %w", id, err)
	}
	return &salon, nil
}

// idFilterValues matches an id stored either as a string or as a number.
func idFilterValues(id models.ID) bson.A {
	values := bson.A{id.String()}
	if n, err := strconv.ParseInt(id.String(), 10, 64); err == nil {
		values = append(values, n)
	} else if f, err := strconv.ParseFloat(id.String(), 64); err == nil {
		values = append(values, f)
	}
	return values
}

func (r *mongoSalonRepo) ListSalons(ctx context.Context) ([]models.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list salons: %w", err)
	}
	defer cursor.Close(ctx)

	var salons []models.Salon
	if err := cursor.All(ctx, &salons); err != nil {
		return nil, fmt.Errorf("decode salons: %w", err)
	}
	return salons, nil
}

// EnsureIndexes creates the unique id index on the salons collection.
func (r *mongoSalonRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create salon indexes: %w", err)
	}
	return nil
}
