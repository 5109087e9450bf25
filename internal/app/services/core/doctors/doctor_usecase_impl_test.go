package doctors

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeDoctorRepo struct {
	doctors map[string]*models.Doctor
}

func (r *fakeDoctorRepo) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, ok := r.doctors[doctorID]
	if !ok {
		return nil, nil
	}
	copied := *doctor
	return &copied, nil
}

func (r *fakeDoctorRepo) FindAll(ctx context.Context) ([]models.Doctor, error) {
	var all []models.Doctor
	for _, doctor := range r.doctors {
		all = append(all, *doctor)
	}
	return all, nil
}

func (r *fakeDoctorRepo) UpdateAvailability(ctx context.Context, doctorID string, available bool) error {
	doctor, ok := r.doctors[doctorID]
	if !ok {
		return exceptions.ErrDoctorNotFound(nil)
	}
	doctor.Available = available
	return nil
}

func (r *fakeDoctorRepo) ClaimSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error {
	return nil
}

func (r *fakeDoctorRepo) FreeSlot(ctx context.Context, doctorID, dateKey, timeSlot string) error {
	return nil
}

type fakeApptRepo struct {
	appointments map[string]*models.Appointment
}

func (r *fakeApptRepo) Create(ctx context.Context, appointment *models.Appointment) (string, error) {
	return "", nil
}

func (r *fakeApptRepo) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeApptRepo) UpdateFields(ctx context.Context, appointmentID string, fields map[string]interface{}) error {
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	if completed, ok := fields["isCompleted"].(bool); ok {
		appointment.IsCompleted = completed
	}
	return nil
}

func (r *fakeApptRepo) MarkPaid(ctx context.Context, appointmentID, paymentID string) (bool, error) {
	appointment, ok := r.appointments[appointmentID]
	if !ok || appointment.Payment || appointment.Cancelled {
		return false, nil
	}
	appointment.Payment = true
	appointment.PaymentID = paymentID
	return true, nil
}

func (r *fakeApptRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeApptRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var list []models.Appointment
	for _, appointment := range r.appointments {
		if appointment.DoctorID == doctorID {
			list = append(list, *appointment)
		}
	}
	return list, nil
}

type fakeRatingUsecase struct {
	summaries map[string]*responses.RatingSummary
}

func (u *fakeRatingUsecase) Submit(ctx context.Context, doctorID string, rater models.Rater, score int, comment string) (*responses.RatingSummary, error) {
	return nil, nil
}

func (u *fakeRatingUsecase) Summary(ctx context.Context, doctorID string) (*responses.RatingSummary, error) {
	if summary, ok := u.summaries[doctorID]; ok {
		return summary, nil
	}
	return &responses.RatingSummary{DoctorID: doctorID}, nil
}

func (u *fakeRatingUsecase) ListByDoctor(ctx context.Context, doctorID string) ([]models.Rating, error) {
	return nil, nil
}

func newTestUsecase(doctorRepo *fakeDoctorRepo, appointmentRepo *fakeApptRepo, ratings *fakeRatingUsecase) *doctorUsecase {
	if ratings == nil {
		ratings = &fakeRatingUsecase{summaries: map[string]*responses.RatingSummary{}}
	}
	return &doctorUsecase{
		DoctorRepository:      doctorRepo,
		AppointmentRepository: appointmentRepo,
		RatingUsecase:         ratings,
		Log:                   zap.NewNop(),
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelled appointments never earn even when paid", func(t *testing.T) {
		doctorRepo := &fakeDoctorRepo{doctors: map[string]*models.Doctor{
			"doc-1": {ID: "doc-1", Name: "Dr. Richard James"},
		}}
		appointmentRepo := &fakeApptRepo{appointments: map[string]*models.Appointment{
			"appt-1": {ID: "appt-1", DoctorID: "doc-1", UserID: "user-1", Amount: 500, Payment: true},
			"appt-2": {ID: "appt-2", DoctorID: "doc-1", UserID: "user-2", Amount: 300, Payment: true, Cancelled: true},
		}}
		uc := newTestUsecase(doctorRepo, appointmentRepo, nil)

		dashboard, err := uc.Dashboard(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, 500.0, dashboard.Earnings)
		assert.Equal(t, 2, dashboard.Appointments)
		assert.Equal(t, 2, dashboard.Patients)
	})

	t.Run("completed but unpaid appointments earn", func(t *testing.T) {
		doctorRepo := &fakeDoctorRepo{doctors: map[string]*models.Doctor{
			"doc-1": {ID: "doc-1"},
		}}
		appointmentRepo := &fakeApptRepo{appointments: map[string]*models.Appointment{
			"appt-1": {ID: "appt-1", DoctorID: "doc-1", UserID: "user-1", Amount: 450, IsCompleted: true},
			"appt-2": {ID: "appt-2", DoctorID: "doc-1", UserID: "user-1", Amount: 450},
		}}
		uc := newTestUsecase(doctorRepo, appointmentRepo, nil)

		dashboard, err := uc.Dashboard(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, 450.0, dashboard.Earnings)
		assert.Equal(t, 1, dashboard.Patients)
	})
}

func TestChangeAvailability(t *testing.T) {
	ctx := context.Background()
	doctorRepo := &fakeDoctorRepo{doctors: map[string]*models.Doctor{
		"doc-1": {ID: "doc-1", Available: true},
	}}
	uc := newTestUsecase(doctorRepo, &fakeApptRepo{}, nil)

	available, err := uc.ChangeAvailability(ctx, "doc-1")
	assert.NoError(t, err)
	assert.False(t, available)

	available, err = uc.ChangeAvailability(ctx, "doc-1")
	assert.NoError(t, err)
	assert.True(t, available)

	_, err = uc.ChangeAvailability(ctx, "doc-missing")
	var customErr *exceptions.CustomError
	assert.ErrorAs(t, err, &customErr)
	assert.Equal(t, 404, customErr.StatusCode)
}

func TestCompleteAppointment(t *testing.T) {
	ctx := context.Background()

	setup := func() (*doctorUsecase, *fakeApptRepo) {
		appointmentRepo := &fakeApptRepo{appointments: map[string]*models.Appointment{
			"appt-1": {ID: "appt-1", DoctorID: "doc-1", UserID: "user-1"},
		}}
		doctorRepo := &fakeDoctorRepo{doctors: map[string]*models.Doctor{"doc-1": {ID: "doc-1"}}}
		return newTestUsecase(doctorRepo, appointmentRepo, nil), appointmentRepo
	}

	t.Run("owner doctor completes once", func(t *testing.T) {
		uc, appointmentRepo := setup()

		assert.NoError(t, uc.CompleteAppointment(ctx, "doc-1", "appt-1"))
		assert.True(t, appointmentRepo.appointments["appt-1"].IsCompleted)

		err := uc.CompleteAppointment(ctx, "doc-1", "appt-1")
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 400, customErr.StatusCode)
	})

	t.Run("other doctors are rejected", func(t *testing.T) {
		uc, _ := setup()

		err := uc.CompleteAppointment(ctx, "doc-2", "appt-1")

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 403, customErr.StatusCode)
	})
}

func TestListDoctors(t *testing.T) {
	ctx := context.Background()
	doctorRepo := &fakeDoctorRepo{doctors: map[string]*models.Doctor{
		"doc-1": {ID: "doc-1", Name: "Dr. Richard James", Speciality: "General physician", Fees: 500, Available: true},
	}}
	ratings := &fakeRatingUsecase{summaries: map[string]*responses.RatingSummary{
		"doc-1": {DoctorID: "doc-1", AverageRating: 4.5, TotalRatings: 12},
	}}
	uc := newTestUsecase(doctorRepo, &fakeApptRepo{}, ratings)

	list, err := uc.ListDoctors(ctx)

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 4.5, list[0].AverageRating)
	assert.Equal(t, 12, list[0].TotalRatings)
	assert.Equal(t, "General physician", list[0].Speciality)
}
