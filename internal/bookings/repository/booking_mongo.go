package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongotx "bookline/pkg/db/mongo"
	"bookline/pkg/model"
)

const collectionName = "bookings"

type mongoRepository struct {
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

// NewMongoRepository returns the database-backed Repository variant. The
// check-then-append sequence of Add runs inside one Mongo transaction
// instead of the file store's lock.
func NewMongoRepository(client *mongo.Client, databaseName string) Repository {
	return &mongoRepository{
		collection: client.Database(databaseName).Collection(collectionName),
		txManager:  mongotx.NewTransactionManager(client),
	}
}

func (r *mongoRepository) ListAll(ctx context.Context) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRepository) ListByCarID(ctx context.Context, carID int) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"car_id": carID})
}

func (r *mongoRepository) ListByDate(ctx context.Context, target model.Date) ([]*model.Booking, error) {
	// Dates are stored as ISO strings, which order lexically the same way
	// they order chronologically; inclusive containment on both ends.
	s := target.String()
	return r.find(ctx, bson.M{
		"start_date": bson.M{"$lte": s},
		"end_date":   bson.M{"$gte": s},
	})
}

func (r *mongoRepository) Add(ctx context.Context, booking *model.Booking, check ConflictCheck) (*model.Booking, error) {
	stored := *booking

	err := r.txManager.RunInTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if check != nil {
			sameCar, err := r.find(sessCtx, bson.M{"car_id": stored.CarID})
			if err != nil {
				return err
			}
			if err := check(sameCar); err != nil {
				return err
			}
		}

		id, err := r.nextID(sessCtx)
		if err != nil {
			return err
		}
		stored.ID = id

		if _, err := r.collection.InsertOne(sessCtx, &stored); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *mongoRepository) nextID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})

	var last model.Booking
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to determine next booking id: %w", err)
	}
	return last.ID + 1, nil
}

func (r *mongoRepository) find(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
