package errors

import (
	"fmt"

	"bookline/pkg/model"
)

// ConflictError reports an attempted booking whose inclusive date range
// overlaps an existing booking for the same car.
type ConflictError struct {
	CarID     int
	StartDate model.Date
	EndDate   model.Date
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict for car %d from %s to %s", e.CarID, e.StartDate, e.EndDate)
}
