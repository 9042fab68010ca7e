package service

import (
	"context"
	"errors"

	bookingserrors "bookline/internal/bookings/errors"
	"bookline/internal/bookings/repository"
	"bookline/internal/bookings/validator"
	carserrors "bookline/internal/cars/errors"
	carsrepository "bookline/internal/cars/repository"
	"bookline/pkg/config"
	apperrors "bookline/pkg/errors"
	"bookline/pkg/events"
	"bookline/pkg/model"
)

type BookingService interface {
	// AvailableCars returns every car not covered by a booking on target.
	AvailableCars(ctx context.Context, target model.Date) ([]*model.Car, error)

	// Create validates, conflict-checks, and persists a new booking. The
	// conflict check and the append run inside one store critical section.
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
}

type bookingService struct {
	cars      carsrepository.Repository
	bookings  repository.Repository
	validator *validator.BookingValidator
	events    *events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	cars carsrepository.Repository,
	bookings repository.Repository,
	bookingValidator *validator.BookingValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		cars:      cars,
		bookings:  bookings,
		validator: bookingValidator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) AvailableCars(ctx context.Context, target model.Date) ([]*model.Car, error) {
	cars, err := s.cars.ListAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list cars", "error", err)
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}
	if len(cars) == 0 {
		return []*model.Car{}, nil
	}

	booked, err := s.bookings.ListByDate(ctx, target)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by date", "date", target.String(), "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	bookedCarIDs := make(map[int]struct{}, len(booked))
	for _, b := range booked {
		bookedCarIDs[b.CarID] = struct{}{}
	}

	available := []*model.Car{}
	for _, car := range cars {
		if _, taken := bookedCarIDs[car.ID]; !taken {
			available = append(available, car)
		}
	}

	s.cfg.Log.Info("Availability computed",
		"date", target.String(),
		"total_cars", len(cars),
		"available_cars", len(available),
	)
	return available, nil
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	// Validation failures must surface before any repository access.
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	s.cfg.Log.Info("Booking attempt",
		"car_id", booking.CarID,
		"start_date", booking.StartDate.String(),
		"end_date", booking.EndDate.String(),
		"customer_name", booking.CustomerName,
	)

	if _, err := s.cars.GetByID(ctx, booking.CarID); err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			s.cfg.Log.Warn("Booking failed, car not found", "car_id", booking.CarID)
			return nil, apperrors.NotFoundWithID("Car", booking.CarID)
		}
		s.cfg.Log.Error("Failed to look up car", "car_id", booking.CarID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve car", err)
	}

	stored, err := s.bookings.Add(ctx, booking, func(existing []*model.Booking) error {
		for _, b := range existing {
			if b.Overlaps(booking.StartDate, booking.EndDate) {
				return &bookingserrors.ConflictError{
					CarID:     booking.CarID,
					StartDate: booking.StartDate,
					EndDate:   booking.EndDate,
				}
			}
		}
		return nil
	})
	if err != nil {
		var conflict *bookingserrors.ConflictError
		if errors.As(err, &conflict) {
			s.cfg.Log.Warn("Booking failed, date conflict",
				"car_id", conflict.CarID,
				"start_date", conflict.StartDate.String(),
				"end_date", conflict.EndDate.String(),
			)
			return nil, apperrors.Conflict(conflict.Error()).WithDetails(map[string]any{
				"car_id":     conflict.CarID,
				"start_date": conflict.StartDate.String(),
				"end_date":   conflict.EndDate.String(),
			})
		}
		s.cfg.Log.Error("Failed to create booking", "car_id", booking.CarID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publishCreated(ctx, stored)

	s.cfg.Log.Info("Booking created successfully",
		"id", stored.ID,
		"car_id", stored.CarID,
		"customer_name", stored.CustomerName,
	)
	return stored, nil
}

func (s *bookingService) publishCreated(ctx context.Context, booking *model.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.BookingCreated(ctx, booking); err != nil {
		// The booking is already durable; event delivery is best effort.
		s.cfg.Log.Warn("Failed to publish booking-created event", "id", booking.ID, "error", err)
	}
}
