package contracts

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/responses"
	"time"
)

// SlotCalendar computes the bookable grid for a doctor. Pure: no calendar
// state is mutated, the same (now, doctor) input always yields the same grid.
type SlotCalendar interface {
	AvailableSlots(now time.Time, doctor *models.Doctor) []responses.DaySlots
}
