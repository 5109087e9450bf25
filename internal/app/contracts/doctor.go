package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/responses"
)

type DoctorRepository interface {
	FindByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	FindAll(ctx context.Context) ([]models.Doctor, error)
	UpdateAvailability(ctx context.Context, doctorID string, available bool) error

	// ClaimSlot atomically inserts timeSlot under dateKey in the doctor's
	// slots_booked map. The update is a compare-and-set on the doctor's slot
	// version; two concurrent claims for the same pair resolve to exactly one
	// success and one slot-taken failure.
	ClaimSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error

	// FreeSlot removes timeSlot from slots_booked[dateKey], dropping the date
	// key when its set empties. Freeing an absent slot is a no-op.
	FreeSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error
}

type DoctorUsecase interface {
	ListDoctors(ctx context.Context) ([]responses.DoctorWithRating, error)
	ChangeAvailability(ctx context.Context, doctorID string) (bool, error)
	Dashboard(ctx context.Context, doctorID string) (*responses.DoctorDashboard, error)
	CompleteAppointment(ctx context.Context, doctorID, appointmentID string) error
}
