package appointments

import (
	"context"
	"errors"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	doctorLockKeyFormat = "doctor_reservation_lock:%s"

	lockAcquireMaxAttempts = 3
	lockAcquireRetryDelay  = 50 * time.Millisecond
)

var (
	reservationUsecaseInstance contracts.ReservationUsecase
	onceReservationUsecase     sync.Once
)

type reservationUsecase struct {
	DoctorRepository      contracts.DoctorRepository
	UserRepository        contracts.UserRepository
	AppointmentRepository contracts.AppointmentRepository
	SlotCalendar          contracts.SlotCalendar
	LockerService         contracts.LockerService
	MessagePublisher      contracts.MessagePublisher
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

type bookingEvent struct {
	Event         string  `json:"event"`
	AppointmentID string  `json:"appointmentId"`
	UserID        string  `json:"userId"`
	DoctorID      string  `json:"docId"`
	SlotDate      string  `json:"slotDate"`
	SlotTime      string  `json:"slotTime"`
	Amount        float64 `json:"amount"`
}

func NewReservationUsecase(
	doctorRepository contracts.DoctorRepository,
	userRepository contracts.UserRepository,
	appointmentRepository contracts.AppointmentRepository,
	slotCalendar contracts.SlotCalendar,
	lockerService contracts.LockerService,
	messagePublisher contracts.MessagePublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ReservationUsecase {
	onceReservationUsecase.Do(func() {
		instance := &reservationUsecase{
			DoctorRepository:      doctorRepository,
			UserRepository:        userRepository,
			AppointmentRepository: appointmentRepository,
			SlotCalendar:          slotCalendar,
			LockerService:         lockerService,
			MessagePublisher:      messagePublisher,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
		reservationUsecaseInstance = instance
	})
	return reservationUsecaseInstance
}

func (uc *reservationUsecase) AvailableSlots(ctx context.Context, doctorID string) ([]responses.DaySlots, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reservationUsecase.AvailableSlots called",
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

	return uc.SlotCalendar.AvailableSlots(time.Now(), doctor), nil
}

func (uc *reservationUsecase) Reserve(ctx context.Context, userID, doctorID, slotDate, slotTime string) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reservationUsecase.Reserve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingSlotDateKey, slotDate),
		zap.String(constvars.LoggingSlotTimeKey, slotTime),
	)

	if _, err := utils.ParseSlotDateKey(slotDate); err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	if _, err := time.Parse(constvars.SlotTimeLayout, slotTime); err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}

	doctor, err := uc.DoctorRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	if !doctor.Available {
		return nil, exceptions.ErrDoctorUnavailable(nil)
	}

	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, exceptions.ErrUserNotFound(nil)
	}

	lockKey := fmt.Sprintf(doctorLockKeyFormat, doctorID)
	lockTTL := time.Duration(uc.InternalConfig.App.DoctorLockTTLInSeconds) * time.Second
	acquired, lockValue, err := uc.acquireDoctorLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if acquired {
		defer func() {
			if unlockErr := uc.LockerService.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
				uc.Log.Warn("reservationUsecase.Reserve failed to release doctor lock",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingRedisKey, lockKey),
					zap.Error(unlockErr),
				)
			}
		}()
	} else {
		uc.Log.Info("reservationUsecase.Reserve doctor lock contended, proceeding to slot claim",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, lockKey),
		)
	}

	if err := uc.claimSlotWithRetry(ctx, doctorID, slotDate, slotTime); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		UserID:     userID,
		DoctorID:   doctorID,
		UserData:   user.Snapshot(),
		DoctorData: doctor.Snapshot(),
		SlotDate:   slotDate,
		SlotTime:   slotTime,
		Amount:     doctor.Fees,
		Date:       time.Now(),
	}

	appointmentID, err := uc.AppointmentRepository.Create(ctx, appointment)
	if err != nil {
		// The slot is claimed but no appointment exists. Roll the claim back
		// so the pair does not leak as permanently occupied.
		if freeErr := uc.DoctorRepository.FreeSlot(ctx, doctorID, slotDate, slotTime); freeErr != nil {
			uc.Log.Error("reservationUsecase.Reserve failed to roll back slot claim",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDoctorIDKey, doctorID),
				zap.String(constvars.LoggingSlotDateKey, slotDate),
				zap.String(constvars.LoggingSlotTimeKey, slotTime),
				zap.Error(freeErr),
			)
		}
		return nil, err
	}
	appointment.ID = appointmentID

	uc.publishEvent(ctx, "appointment.booked", appointment)

	uc.Log.Info("reservationUsecase.Reserve succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return appointment, nil
}

// acquireDoctorLock makes a few short-spaced attempts at the per-doctor
// lock. Losing all of them is not fatal: the version CAS on the doctor
// document is the arbiter of slot ownership, the lock only keeps contending
// writers from burning CAS retries. Racers that fall through still resolve
// to one success and slot-taken rejections, never a transient lock error.
func (uc *reservationUsecase) acquireDoctorLock(ctx context.Context, lockKey string, lockTTL time.Duration) (bool, string, error) {
	for attempt := 1; ; attempt++ {
		acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
		if err != nil || acquired {
			return acquired, lockValue, err
		}
		if attempt >= lockAcquireMaxAttempts {
			return false, "", nil
		}
		select {
		case <-ctx.Done():
			return false, "", ctx.Err()
		case <-time.After(lockAcquireRetryDelay):
		}
	}
}

func (uc *reservationUsecase) claimSlotWithRetry(ctx context.Context, doctorID, slotDate, slotTime string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	maxRetries := uc.InternalConfig.App.SlotClaimMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = uc.DoctorRepository.ClaimSlot(ctx, doctorID, slotDate, slotTime)
		if lastErr == nil {
			return nil
		}
		if !exceptions.IsSlotClaimConflict(lastErr) {
			return lastErr
		}
		uc.Log.Info("reservationUsecase.claimSlotWithRetry lost version race, retrying",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Int(constvars.LoggingAttemptKey, attempt),
		)
	}
	return lastErr
}

func (uc *reservationUsecase) Release(ctx context.Context, actingUserID, appointmentID string) error {
	return uc.release(ctx, appointmentID, func(appointment *models.Appointment) error {
		if appointment.UserID != actingUserID {
			return exceptions.ErrUnauthorizedAppointment(nil)
		}
		return nil
	})
}

func (uc *reservationUsecase) ReleaseByDoctor(ctx context.Context, doctorID, appointmentID string) error {
	return uc.release(ctx, appointmentID, func(appointment *models.Appointment) error {
		if appointment.DoctorID != doctorID {
			return exceptions.ErrUnauthorizedAppointment(nil)
		}
		return nil
	})
}

func (uc *reservationUsecase) release(ctx context.Context, appointmentID string, authorize func(*models.Appointment) error) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reservationUsecase.release called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	if err := authorize(appointment); err != nil {
		return err
	}
	if appointment.Cancelled {
		return exceptions.ErrAppointmentAlreadyCancelled(nil)
	}

	now := time.Now()
	err = uc.AppointmentRepository.UpdateFields(ctx, appointmentID, map[string]interface{}{
		"cancelled":   true,
		"cancelledAt": now,
	})
	if err != nil {
		return err
	}

	// Past-date cancellations keep the slot recorded; only today-or-future
	// slots go back into circulation.
	shouldFree, err := utils.IsTodayOrFuture(appointment.SlotDate, now)
	if err != nil {
		uc.Log.Warn("reservationUsecase.release could not interpret slot date, keeping slot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotDateKey, appointment.SlotDate),
			zap.Error(err),
		)
	} else if shouldFree {
		if freeErr := uc.DoctorRepository.FreeSlot(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime); freeErr != nil {
			return freeErr
		}
	}

	uc.publishEvent(ctx, "appointment.cancelled", appointment)

	uc.Log.Info("reservationUsecase.release succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return nil
}

func (uc *reservationUsecase) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return uc.AppointmentRepository.ListByUser(ctx, userID)
}

func (uc *reservationUsecase) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return uc.AppointmentRepository.ListByDoctor(ctx, doctorID)
}

// publishEvent pushes a booking event onto the broker. Event delivery is best
// effort; a broker outage must not fail a booking that is already durable.
func (uc *reservationUsecase) publishEvent(ctx context.Context, event string, appointment *models.Appointment) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	err := uc.MessagePublisher.Publish(ctx, uc.InternalConfig.RabbitMQ.BookingQueue, bookingEvent{
		Event:         event,
		AppointmentID: appointment.ID,
		UserID:        appointment.UserID,
		DoctorID:      appointment.DoctorID,
		SlotDate:      appointment.SlotDate,
		SlotTime:      appointment.SlotTime,
		Amount:        appointment.Amount,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		uc.Log.Warn("reservationUsecase.publishEvent failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Error(err),
		)
	}
}
