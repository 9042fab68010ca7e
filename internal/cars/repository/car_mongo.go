package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	carserrors "bookline/internal/cars/errors"
	"bookline/pkg/model"
)

const collectionName = "cars"

type mongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository returns the database-backed Repository variant,
// selected via STORAGE_BACKEND=mongo.
func NewMongoRepository(client *mongo.Client, databaseName string) Repository {
	return &mongoRepository{
		collection: client.Database(databaseName).Collection(collectionName),
	}
}

func (r *mongoRepository) ListAll(ctx context.Context) ([]*model.Car, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find cars: %w", err)
	}
	defer cursor.Close(ctx)

	cars := []*model.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id int) (*model.Car, error) {
	var car model.Car
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, carserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find car: %w", err)
	}
	return &car, nil
}
