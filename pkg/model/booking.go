package model

// Booking reserves one car for an inclusive date range. Bookings are
// immutable once created; the ID is assigned by the repository while the
// store lock is held.
type Booking struct {
	ID           int    `json:"id" bson:"id"`
	CarID        int    `json:"car_id" bson:"car_id" validate:"required,min=1"`
	StartDate    Date   `json:"start_date" bson:"start_date" validate:"required"`
	EndDate      Date   `json:"end_date" bson:"end_date" validate:"required"`
	CustomerName string `json:"customer_name" bson:"customer_name" validate:"required,min=1"`
}

// Overlaps reports whether two inclusive date ranges intersect: they do
// unless one ends strictly before the other begins.
func (b *Booking) Overlaps(start, end Date) bool {
	return !(b.EndDate.Before(start) || end.Before(b.StartDate))
}

// CoversDate reports whether the booking's inclusive range contains target.
func (b *Booking) CoversDate(target Date) bool {
	return b.StartDate.Covers(b.EndDate, target)
}
