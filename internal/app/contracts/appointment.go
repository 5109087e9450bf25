package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/responses"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) (string, error)
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)

	// UpdateFields applies a partial update to one appointment. Unknown ids
	// are an error; business invariants (monotonic flags, ownership) are the
	// caller's job.
	UpdateFields(ctx context.Context, appointmentID string, fields map[string]interface{}) error

	// MarkPaid flips the appointment to paid, conditional on it still being
	// payable: the write matches only while payment and cancelled are both
	// false, so concurrent reconciliations resolve to exactly one transition.
	// Returns false without error when another writer got there first.
	MarkPaid(ctx context.Context, appointmentID, paymentID string) (bool, error)

	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
}

type ReservationUsecase interface {
	AvailableSlots(ctx context.Context, doctorID string) ([]responses.DaySlots, error)
	Reserve(ctx context.Context, userID, doctorID, slotDate, slotTime string) (*models.Appointment, error)
	Release(ctx context.Context, actingUserID, appointmentID string) error
	ReleaseByDoctor(ctx context.Context, doctorID, appointmentID string) error
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
}
