package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bookline/pkg/jsonstore"
	"bookline/pkg/logger"
	"bookline/pkg/model"
)

func newBookingTestStore(t *testing.T) *jsonstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := jsonstore.New(path, 2*time.Second, 10*time.Millisecond, logger.Discard())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func mustAdd(t *testing.T, repo Repository, booking *model.Booking) *model.Booking {
	t.Helper()
	stored, err := repo.Add(context.Background(), booking, nil)
	if err != nil {
		t.Fatalf("failed to add booking: %v", err)
	}
	return stored
}

func TestFileBookingRepository_AddAssignsSequentialIDs(t *testing.T) {
	repo := NewFileRepository(newBookingTestStore(t))

	first := mustAdd(t, repo, &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Alice",
	})
	second := mustAdd(t, repo, &model.Booking{
		CarID:        2,
		StartDate:    model.NewDate(2026, 2, 1),
		EndDate:      model.NewDate(2026, 2, 3),
		CustomerName: "Bob",
	})

	if first.ID != 1 {
		t.Errorf("expected first booking ID 1, got %d", first.ID)
	}
	if second.ID != 2 {
		t.Errorf("expected second booking ID 2, got %d", second.ID)
	}
}

func TestFileBookingRepository_ListAll(t *testing.T) {
	repo := NewFileRepository(newBookingTestStore(t))
	mustAdd(t, repo, &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Alice",
	})

	bookings, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if bookings[0].CustomerName != "Alice" {
		t.Errorf("unexpected booking: %+v", bookings[0])
	}
	if bookings[0].StartDate.String() != "2026-01-24" {
		t.Errorf("start date did not survive the round trip: %s", bookings[0].StartDate)
	}
}

func TestFileBookingRepository_ListByCarID(t *testing.T) {
	repo := NewFileRepository(newBookingTestStore(t))
	mustAdd(t, repo, &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Alice",
	})
	mustAdd(t, repo, &model.Booking{
		CarID:        2,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Bob",
	})

	bookings, err := repo.ListByCarID(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking for car 2, got %d", len(bookings))
	}
	if bookings[0].CustomerName != "Bob" {
		t.Errorf("unexpected booking: %+v", bookings[0])
	}
}

func TestFileBookingRepository_ListByDate(t *testing.T) {
	repo := NewFileRepository(newBookingTestStore(t))
	mustAdd(t, repo, &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Alice",
	})

	tests := []struct {
		name   string
		target model.Date
		want   int
	}{
		{"before range", model.NewDate(2026, 1, 23), 0},
		{"start boundary", model.NewDate(2026, 1, 24), 1},
		{"inside range", model.NewDate(2026, 1, 25), 1},
		{"end boundary", model.NewDate(2026, 1, 26), 1},
		{"after range", model.NewDate(2026, 1, 27), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, err := repo.ListByDate(context.Background(), tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(bookings) != tt.want {
				t.Errorf("expected %d bookings on %s, got %d", tt.want, tt.target, len(bookings))
			}
		})
	}
}

func TestFileBookingRepository_ConflictCheckSeesSameCarOnly(t *testing.T) {
	repo := NewFileRepository(newBookingTestStore(t))
	mustAdd(t, repo, &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Alice",
	})
	mustAdd(t, repo, &model.Booking{
		CarID:        2,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Bob",
	})

	var seen []*model.Booking
	_, err := repo.Add(context.Background(), &model.Booking{
		CarID:        2,
		StartDate:    model.NewDate(2026, 3, 1),
		EndDate:      model.NewDate(2026, 3, 2),
		CustomerName: "Carol",
	}, func(existing []*model.Booking) error {
		seen = existing
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("expected the check to see 1 booking, got %d", len(seen))
	}
	if seen[0].CarID != 2 {
		t.Errorf("expected booking for car 2, got car %d", seen[0].CarID)
	}
}

func TestFileBookingRepository_ConflictCheckErrorAbortsAppend(t *testing.T) {
	repo := NewFileRepository(newBookingTestStore(t))
	mustAdd(t, repo, &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 24),
		EndDate:      model.NewDate(2026, 1, 26),
		CustomerName: "Alice",
	})

	wantErr := errors.New("range already taken")
	_, err := repo.Add(context.Background(), &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 25),
		EndDate:      model.NewDate(2026, 1, 27),
		CustomerName: "Bob",
	}, func(existing []*model.Booking) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the check error, got %v", err)
	}

	bookings, listErr := repo.ListAll(context.Background())
	if listErr != nil {
		t.Fatalf("unexpected error: %v", listErr)
	}
	if len(bookings) != 1 {
		t.Errorf("rejected booking must not be persisted, found %d bookings", len(bookings))
	}
}
