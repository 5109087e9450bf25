package utils

import (
	"medibook-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateReceiptID ties a provider order back to the appointment it pays for.
// The appointment id itself is the receipt so callbacks can correlate without
// an extra lookup table.
func GenerateReceiptID(appointmentID string) string {
	return appointmentID
}

func GenerateIdempotencyKey(appointmentID string) string {
	return "order:" + appointmentID
}
