package doctors

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

var (
	doctorUsecaseInstance contracts.DoctorUsecase
	onceDoctorUsecase     sync.Once
)

type doctorUsecase struct {
	DoctorRepository      contracts.DoctorRepository
	AppointmentRepository contracts.AppointmentRepository
	RatingUsecase         contracts.RatingUsecase
	Log                   *zap.Logger
}

func NewDoctorUsecase(
	doctorRepository contracts.DoctorRepository,
	appointmentRepository contracts.AppointmentRepository,
	ratingUsecase contracts.RatingUsecase,
	logger *zap.Logger,
) contracts.DoctorUsecase {
	onceDoctorUsecase.Do(func() {
		instance := &doctorUsecase{
			DoctorRepository:      doctorRepository,
			AppointmentRepository: appointmentRepository,
			RatingUsecase:         ratingUsecase,
			Log:                   logger,
		}
		doctorUsecaseInstance = instance
	})
	return doctorUsecaseInstance
}

func (uc *doctorUsecase) ListDoctors(ctx context.Context) ([]responses.DoctorWithRating, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.ListDoctors called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	doctors, err := uc.DoctorRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]responses.DoctorWithRating, 0, len(doctors))
	for _, doctor := range doctors {
		summary, err := uc.RatingUsecase.Summary(ctx, doctor.ID)
		if err != nil {
			return nil, err
		}
		list = append(list, responses.DoctorWithRating{
			ID:            doctor.ID,
			Name:          doctor.Name,
			Speciality:    doctor.Speciality,
			Degree:        doctor.Degree,
			Experience:    doctor.Experience,
			About:         doctor.About,
			Fees:          doctor.Fees,
			Available:     doctor.Available,
			AverageRating: summary.AverageRating,
			TotalRatings:  summary.TotalRatings,
		})
	}
	return list, nil
}

func (uc *doctorUsecase) ChangeAvailability(ctx context.Context, doctorID string) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.ChangeAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return false, err
	}
	if doctor == nil {
		return false, exceptions.ErrDoctorNotFound(nil)
	}

	newAvailability := !doctor.Available
	if err := uc.DoctorRepository.UpdateAvailability(ctx, doctorID, newAvailability); err != nil {
		return false, err
	}
	return newAvailability, nil
}

// Dashboard aggregates the doctor's earnings, appointment counts and rating
// summary. Earnings count appointments that are completed or paid and not
// cancelled; a cancelled appointment never earns even when it was paid first.
func (uc *doctorUsecase) Dashboard(ctx context.Context, doctorID string) (*responses.DoctorDashboard, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.Dashboard called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	appointments, err := uc.AppointmentRepository.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	var earnings float64
	patients := make(map[string]struct{})
	for _, appointment := range appointments {
		if appointment.CountsAsEarning() {
			earnings += appointment.Amount
		}
		patients[appointment.UserID] = struct{}{}
	}

	summary, err := uc.RatingUsecase.Summary(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	latest := appointments
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &responses.DoctorDashboard{
		Earnings:           earnings,
		Appointments:       len(appointments),
		Patients:           len(patients),
		AverageRating:      summary.AverageRating,
		TotalRatings:       summary.TotalRatings,
		LatestAppointments: latest,
	}, nil
}

func (uc *doctorUsecase) CompleteAppointment(ctx context.Context, doctorID, appointmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("doctorUsecase.CompleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	if appointment.DoctorID != doctorID {
		return exceptions.ErrUnauthorizedAppointment(nil)
	}
	if appointment.Cancelled {
		return exceptions.ErrAppointmentAlreadyCancelled(nil)
	}
	if appointment.IsCompleted {
		return exceptions.ErrAppointmentAlreadyCompleted(nil)
	}

	return uc.AppointmentRepository.UpdateFields(ctx, appointmentID, map[string]interface{}{
		"isCompleted": true,
	})
}
