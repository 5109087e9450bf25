package exceptions

import (
	"errors"
	"medibook-service/internal/pkg/constvars"
	"strings"
)

// IsSlotClaimConflict reports whether err is the version race lost inside a
// slot claim. Conflicts are retryable; every other claim failure is not.
func IsSlotClaimConflict(err error) bool {
	var customErr *CustomError
	return errors.As(err, &customErr) && strings.HasPrefix(customErr.DevMessage, constvars.ErrDevSlotClaimConflict)
}

// IsSlotTaken reports whether err means the slot is already occupied.
func IsSlotTaken(err error) bool {
	var customErr *CustomError
	return errors.As(err, &customErr) && strings.HasPrefix(customErr.DevMessage, constvars.ErrDevSlotAlreadyBooked)
}
