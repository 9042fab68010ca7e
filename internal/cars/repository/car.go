package repository

import (
	"context"
	"encoding/json"
	"fmt"

	carserrors "bookline/internal/cars/errors"
	"bookline/pkg/jsonstore"
	"bookline/pkg/model"
)

const documentKey = "cars"

// Repository abstracts car persistence. The file-backed implementation is
// the default; a Mongo-backed one can be selected at composition time.
type Repository interface {
	ListAll(ctx context.Context) ([]*model.Car, error)
	GetByID(ctx context.Context, id int) (*model.Car, error)
}

type fileRepository struct {
	store *jsonstore.Store
}

// NewFileRepository returns a Repository projecting the "cars" array of the
// shared JSON document. Every call re-reads the full document; the document
// is assumed to fit comfortably in memory at this deployment scale.
func NewFileRepository(store *jsonstore.Store) Repository {
	return &fileRepository{store: store}
}

func (r *fileRepository) ListAll(ctx context.Context) ([]*model.Car, error) {
	doc, err := r.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cars: %w", err)
	}
	return decodeCars(doc)
}

func (r *fileRepository) GetByID(ctx context.Context, id int) (*model.Car, error) {
	cars, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, car := range cars {
		if car.ID == id {
			return car, nil
		}
	}
	return nil, carserrors.ErrNotFound
}

func decodeCars(doc jsonstore.Document) ([]*model.Car, error) {
	raw, ok := doc[documentKey]
	if !ok {
		return []*model.Car{}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cars array: %w", err)
	}
	var cars []*model.Car
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars array: %w", err)
	}
	if cars == nil {
		cars = []*model.Car{}
	}
	return cars, nil
}
