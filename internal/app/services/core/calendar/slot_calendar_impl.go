package calendar

import (
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"
)

var (
	slotCalendarInstance contracts.SlotCalendar
	onceSlotCalendar     sync.Once
)

type slotCalendar struct{}

func NewSlotCalendar() contracts.SlotCalendar {
	onceSlotCalendar.Do(func() {
		slotCalendarInstance = &slotCalendar{}
	})
	return slotCalendarInstance
}

// AvailableSlots generates the rolling booking grid: one entry per day for
// the whole window, slots every 30 minutes between opening and closing hour.
// Today's grid starts at least an hour ahead of now, rounded to the next half
// hour; past days never appear. A doctor who turned availability off still
// gets the dated window, but with no candidates in it.
func (c *slotCalendar) AvailableSlots(now time.Time, doctor *models.Doctor) []responses.DaySlots {
	window := make([]responses.DaySlots, 0, constvars.BookingWindowDays)

	for dayOffset := 0; dayOffset < constvars.BookingWindowDays; dayOffset++ {
		day := now.AddDate(0, 0, dayOffset)
		dateKey := utils.FormatSlotDateKey(day)

		if !doctor.Available {
			window = append(window, responses.DaySlots{DateKey: dateKey, Slots: []responses.CandidateSlot{}})
			continue
		}

		cursor := startOfGrid(now, day)
		closing := time.Date(day.Year(), day.Month(), day.Day(), constvars.BookingClosingHour, 0, 0, 0, day.Location())

		daySlots := responses.DaySlots{DateKey: dateKey, Slots: []responses.CandidateSlot{}}
		for cursor.Before(closing) {
			timeSlot := utils.FormatSlotTime(cursor)
			daySlots.Slots = append(daySlots.Slots, responses.CandidateSlot{
				DateTime:  cursor,
				DateKey:   dateKey,
				Time:      timeSlot,
				Available: !doctor.IsSlotBooked(dateKey, timeSlot),
			})
			cursor = cursor.Add(constvars.BookingSlotStepMinutes * time.Minute)
		}
		window = append(window, daySlots)
	}

	return window
}

// startOfGrid picks the first candidate instant for a day. Days after today
// open at the opening hour sharp. Today opens one hour after the current hour
// once the clock passes the opening hour, with minutes snapped to the next
// half-hour mark.
func startOfGrid(now, day time.Time) time.Time {
	if !utils.SameCalendarDay(now, day) {
		return time.Date(day.Year(), day.Month(), day.Day(), constvars.BookingOpeningHour, 0, 0, 0, day.Location())
	}

	hour := constvars.BookingOpeningHour
	if now.Hour() > constvars.BookingOpeningHour {
		hour = now.Hour() + 1
	}
	minute := 0
	if now.Minute() > constvars.BookingSlotStepMinutes {
		minute = constvars.BookingSlotStepMinutes
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
