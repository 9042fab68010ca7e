package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bookline/pkg/jsonstore"
	"bookline/pkg/model"
)

const documentKey = "bookings"

// ConflictCheck inspects the bookings already persisted for the new
// booking's car. It runs inside the store's critical section, so a
// concurrent creation for the same car cannot slip between the check and
// the append. Returning an error aborts the append without writing.
type ConflictCheck func(existing []*model.Booking) error

type Repository interface {
	ListAll(ctx context.Context) ([]*model.Booking, error)
	ListByCarID(ctx context.Context, carID int) ([]*model.Booking, error)
	ListByDate(ctx context.Context, target model.Date) ([]*model.Booking, error)

	// Add assigns the next booking ID and appends the booking, with the
	// conflict check, the ID assignment, and the append all under one lock
	// acquisition. The stored booking is returned with its assigned ID.
	Add(ctx context.Context, booking *model.Booking, check ConflictCheck) (*model.Booking, error)
}

type fileRepository struct {
	store *jsonstore.Store
}

// NewFileRepository returns a Repository projecting the "bookings" array of
// the shared JSON document. No caching: every call re-reads the document.
func NewFileRepository(store *jsonstore.Store) Repository {
	return &fileRepository{store: store}
}

func (r *fileRepository) ListAll(ctx context.Context) ([]*model.Booking, error) {
	doc, err := r.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	return decodeBookings(doc)
}

func (r *fileRepository) ListByCarID(ctx context.Context, carID int) ([]*model.Booking, error) {
	bookings, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := []*model.Booking{}
	for _, b := range bookings {
		if b.CarID == carID {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (r *fileRepository) ListByDate(ctx context.Context, target model.Date) ([]*model.Booking, error) {
	bookings, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := []*model.Booking{}
	for _, b := range bookings {
		if b.CoversDate(target) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (r *fileRepository) Add(ctx context.Context, booking *model.Booking, check ConflictCheck) (*model.Booking, error) {
	stored := *booking

	_, err := r.store.Update(ctx, func(doc jsonstore.Document) (jsonstore.Document, error) {
		existing, err := decodeBookings(doc)
		if err != nil {
			return nil, err
		}

		if check != nil {
			sameCar := make([]*model.Booking, 0, len(existing))
			for _, b := range existing {
				if b.CarID == stored.CarID {
					sameCar = append(sameCar, b)
				}
			}
			if err := check(sameCar); err != nil {
				return nil, err
			}
		}

		stored.ID = nextID(existing)

		encoded, err := encodeBooking(&stored)
		if err != nil {
			return nil, err
		}

		raw, _ := doc[documentKey].([]any)
		doc[documentKey] = append(raw, encoded)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func nextID(existing []*model.Booking) int {
	next := 1
	for _, b := range existing {
		if b.ID >= next {
			next = b.ID + 1
		}
	}
	return next
}

func decodeBookings(doc jsonstore.Document) ([]*model.Booking, error) {
	raw, ok := doc[documentKey]
	if !ok {
		return []*model.Booking{}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bookings array: %w", err)
	}
	var bookings []*model.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings array: %w", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

func encodeBooking(booking *model.Booking) (map[string]any, error) {
	data, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("failed to encode booking: %w", err)
	}
	var encoded map[string]any
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("failed to encode booking: %w", err)
	}
	return encoded, nil
}
