package utils

import (
	"fmt"
	"medibook-service/internal/pkg/constvars"
	"time"
)

// FormatSlotDateKey renders the calendar-date key shared with the front end:
// non-zero-padded day, month and year joined by underscores ("5_3_2026").
// Every read and write of a doctor's slots_booked map goes through this
// function; a second formatter would silently fork the booking state.
func FormatSlotDateKey(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// ParseSlotDateKey is the inverse of FormatSlotDateKey. The returned time is
// midnight local time on that date.
func ParseSlotDateKey(key string) (time.Time, error) {
	var day, month, year int
	if _, err := fmt.Sscanf(key, "%d_%d_%d", &day, &month, &year); err != nil {
		return time.Time{}, fmt.Errorf("invalid slot date key %q: %w", key, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, fmt.Errorf("invalid slot date key %q", key)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// FormatSlotTime renders a clock time as the "10:30 AM" wire form.
func FormatSlotTime(t time.Time) string {
	return t.Format(constvars.SlotTimeLayout)
}

// SameCalendarDay reports whether two instants fall on the same local date.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsTodayOrFuture reports whether the date key names today or a later date
// relative to now. Cancelling a past appointment keeps the slot recorded;
// only today-or-future cancellations free it.
func IsTodayOrFuture(dateKey string, now time.Time) (bool, error) {
	slotDay, err := ParseSlotDateKey(dateKey)
	if err != nil {
		return false, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !slotDay.Before(today), nil
}
