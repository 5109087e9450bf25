package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-key-secret"

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeApptRepo struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
}

func newFakeApptRepo(appointments ...*models.Appointment) *fakeApptRepo {
	repo := &fakeApptRepo{appointments: make(map[string]*models.Appointment)}
	for _, appointment := range appointments {
		repo.appointments[appointment.ID] = appointment
	}
	return repo
}

func (r *fakeApptRepo) Create(ctx context.Context, appointment *models.Appointment) (string, error) {
	return "", errors.New("not used")
}

func (r *fakeApptRepo) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeApptRepo) UpdateFields(ctx context.Context, appointmentID string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return exceptions.ErrAppointmentNotFound(nil)
	}
	for key, value := range fields {
		switch key {
		case "payment":
			appointment.Payment = value.(bool)
		case "paymentId":
			appointment.PaymentID = value.(string)
		case "paymentDate":
			at := value.(time.Time)
			appointment.PaymentDate = &at
		}
	}
	return nil
}

func (r *fakeApptRepo) MarkPaid(ctx context.Context, appointmentID, paymentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return false, nil
	}
	if appointment.Payment || appointment.Cancelled {
		return false, nil
	}
	appointment.Payment = true
	appointment.PaymentID = paymentID
	at := time.Now()
	appointment.PaymentDate = &at
	return true, nil
}

func (r *fakeApptRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeApptRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return nil, nil
}

// staleReadRepo serves a bounded number of reads as if a concurrent paid
// transition had not landed yet, the window a racing callback reads in.
type staleReadRepo struct {
	*fakeApptRepo
	mu         sync.Mutex
	staleReads int
}

func (r *staleReadRepo) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appointment, err := r.fakeApptRepo.FindByID(ctx, appointmentID)
	if appointment == nil || err != nil {
		return appointment, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.staleReads > 0 {
		r.staleReads--
		appointment.Payment = false
		appointment.PaymentID = ""
		appointment.PaymentDate = nil
	}
	return appointment, nil
}

type fakeOrderGateway struct {
	mu     sync.Mutex
	seq    int
	orders map[string]*responses.GatewayOrder
}

func newFakeOrderGateway() *fakeOrderGateway {
	return &fakeOrderGateway{orders: make(map[string]*responses.GatewayOrder)}
}

func (g *fakeOrderGateway) CreateOrder(ctx context.Context, request *requests.GatewayOrderRequest) (*responses.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	order := &responses.GatewayOrder{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   request.Amount,
		Currency: request.Currency,
		Receipt:  request.Receipt,
		Status:   constvars.OrderStatusCreated,
	}
	g.orders[order.ID] = order
	return order, nil
}

func (g *fakeOrderGateway) FetchOrder(ctx context.Context, orderID string) (*responses.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order, ok := g.orders[orderID]
	if !ok {
		return nil, exceptions.ErrGatewayFetchOrder(errors.New("unknown order"))
	}
	copied := *order
	return &copied, nil
}

func (g *fakeOrderGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *fakeOrderGateway) markPaid(orderID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders[orderID].Status = constvars.OrderStatusPaid
}

type fakeCheckoutGateway struct {
	mu         sync.Mutex
	seq        int
	lastAmount int64
	sessions   map[string]*responses.CheckoutSession
}

func newFakeCheckoutGateway() *fakeCheckoutGateway {
	return &fakeCheckoutGateway{sessions: make(map[string]*responses.CheckoutSession)}
}

func (g *fakeCheckoutGateway) CreateSession(ctx context.Context, request *requests.CheckoutSessionRequest) (*responses.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.lastAmount = request.Amount
	session := &responses.CheckoutSession{
		ID:            fmt.Sprintf("cs_%d", g.seq),
		URL:           "https://checkout.example/" + request.AppointmentID,
		AppointmentID: request.AppointmentID,
		Status:        constvars.CheckoutSessionStatusOpen,
		PaymentStatus: constvars.CheckoutPaymentStatusUnpaid,
	}
	g.sessions[request.AppointmentID] = session
	return session, nil
}

func (g *fakeCheckoutGateway) FetchSession(ctx context.Context, appointmentID string) (*responses.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	session, ok := g.sessions[appointmentID]
	if !ok {
		return nil, exceptions.ErrGatewayFetchSession(errors.New("no session recorded"))
	}
	copied := *session
	return &copied, nil
}

func (g *fakeCheckoutGateway) complete(appointmentID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[appointmentID].Status = constvars.CheckoutSessionStatusComplete
	g.sessions[appointmentID].PaymentStatus = constvars.CheckoutPaymentStatusPaid
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, queueName string, body interface{}) error {
	return nil
}

func testAppointment() *models.Appointment {
	return &models.Appointment{
		ID:       "appt-1",
		UserID:   "user-1",
		DoctorID: "doc-1",
		DoctorData: models.DoctorSnapshot{
			Name: "Dr. Richard James",
			Fees: 500,
		},
		SlotDate: "5_3_2026",
		SlotTime: "10:30 AM",
		Amount:   500,
	}
}

func newTestUsecase(appointmentRepo contracts.AppointmentRepository, orderGateway *fakeOrderGateway, checkoutGateway *fakeCheckoutGateway) *paymentUsecase {
	return &paymentUsecase{
		AppointmentRepository: appointmentRepo,
		OrderGateway:          orderGateway,
		CheckoutGateway:       checkoutGateway,
		MessagePublisher:      nopPublisher{},
		InternalConfig: &config.InternalConfig{
			OrderGateway:    config.OrderGateway{Currency: "INR"},
			CheckoutGateway: config.CheckoutGateway{Currency: "usd"},
			RabbitMQ:        config.AppRabbitMQ{PaymentQueue: "test.payment"},
		},
		Log: zap.NewNop(),
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an order in minor units with the appointment as receipt", func(t *testing.T) {
		uc := newTestUsecase(newFakeApptRepo(testAppointment()), newFakeOrderGateway(), newFakeCheckoutGateway())

		order, err := uc.CreateOrder(ctx, "appt-1")

		assert.NoError(t, err)
		assert.EqualValues(t, 50000, order.Amount)
		assert.Equal(t, "INR", order.Currency)
		assert.Equal(t, "appt-1", order.Receipt)
	})

	t.Run("fees that truncate in floating point still round to the right unit", func(t *testing.T) {
		appointment := testAppointment()
		appointment.Amount = 2.01
		uc := newTestUsecase(newFakeApptRepo(appointment), newFakeOrderGateway(), newFakeCheckoutGateway())

		order, err := uc.CreateOrder(ctx, "appt-1")

		assert.NoError(t, err)
		assert.EqualValues(t, 201, order.Amount)
	})

	t.Run("rejects cancelled and already paid appointments", func(t *testing.T) {
		cancelled := testAppointment()
		cancelled.Cancelled = true
		paid := testAppointment()
		paid.ID = "appt-2"
		paid.Payment = true
		uc := newTestUsecase(newFakeApptRepo(cancelled, paid), newFakeOrderGateway(), newFakeCheckoutGateway())

		_, err := uc.CreateOrder(ctx, "appt-1")
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 400, customErr.StatusCode)

		_, err = uc.CreateOrder(ctx, "appt-2")
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 400, customErr.StatusCode)
	})

	t.Run("rejects unknown appointments", func(t *testing.T) {
		uc := newTestUsecase(newFakeApptRepo(), newFakeOrderGateway(), newFakeCheckoutGateway())

		_, err := uc.CreateOrder(ctx, "missing")

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 404, customErr.StatusCode)
	})
}

func TestVerifyOrder(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*paymentUsecase, *fakeApptRepo, *fakeOrderGateway, *responses.PaymentOrder) {
		t.Helper()
		appointmentRepo := newFakeApptRepo(testAppointment())
		orderGateway := newFakeOrderGateway()
		uc := newTestUsecase(appointmentRepo, orderGateway, newFakeCheckoutGateway())
		order, err := uc.CreateOrder(ctx, "appt-1")
		assert.NoError(t, err)
		return uc, appointmentRepo, orderGateway, order
	}

	t.Run("paid order with valid signature reconciles exactly once", func(t *testing.T) {
		uc, appointmentRepo, orderGateway, order := setup(t)
		orderGateway.markPaid(order.OrderID)

		request := &requests.VerifyOrderRequest{
			OrderID:   order.OrderID,
			PaymentID: "pay_1",
			Signature: sign(order.OrderID, "pay_1"),
		}

		first, err := uc.VerifyOrder(ctx, request)
		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomeReconciled, first.Outcome)
		assert.True(t, first.Paid)

		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.True(t, appointment.Payment)
		assert.Equal(t, "pay_1", appointment.PaymentID)
		assert.NotNil(t, appointment.PaymentDate)

		// Replayed callback: no error, no second write.
		firstPaymentDate := *appointment.PaymentDate
		second, err := uc.VerifyOrder(ctx, request)
		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomeAlreadyPaid, second.Outcome)
		assert.True(t, second.Paid)

		appointment, _ = appointmentRepo.FindByID(ctx, "appt-1")
		assert.Equal(t, "pay_1", appointment.PaymentID)
		assert.Equal(t, firstPaymentDate, *appointment.PaymentDate)
	})

	t.Run("callback racing a finished reconciliation cannot overwrite the payment", func(t *testing.T) {
		// The repo read happens before the other callback's write lands, so
		// the terminal check passes on a stale snapshot. The conditional
		// store transition has to refuse the second write.
		appointmentRepo := newFakeApptRepo(testAppointment())
		racingRepo := &staleReadRepo{fakeApptRepo: appointmentRepo}
		orderGateway := newFakeOrderGateway()
		uc := newTestUsecase(racingRepo, orderGateway, newFakeCheckoutGateway())
		order, err := uc.CreateOrder(ctx, "appt-1")
		assert.NoError(t, err)
		orderGateway.markPaid(order.OrderID)

		// The competing callback finishes first; the next read still sees
		// the unpaid snapshot.
		transitioned, err := appointmentRepo.MarkPaid(ctx, "appt-1", "pay_first")
		assert.NoError(t, err)
		assert.True(t, transitioned)
		paid, _ := appointmentRepo.FindByID(ctx, "appt-1")
		firstPaymentDate := *paid.PaymentDate
		racingRepo.staleReads = 1

		result, err := uc.VerifyOrder(ctx, &requests.VerifyOrderRequest{
			OrderID:   order.OrderID,
			PaymentID: "pay_second",
			Signature: sign(order.OrderID, "pay_second"),
		})

		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomeAlreadyPaid, result.Outcome)
		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.Equal(t, "pay_first", appointment.PaymentID)
		assert.Equal(t, firstPaymentDate, *appointment.PaymentDate)
	})

	t.Run("tampered signature is rejected and nothing changes", func(t *testing.T) {
		uc, appointmentRepo, orderGateway, order := setup(t)
		orderGateway.markPaid(order.OrderID)

		_, err := uc.VerifyOrder(ctx, &requests.VerifyOrderRequest{
			OrderID:   order.OrderID,
			PaymentID: "pay_1",
			Signature: sign(order.OrderID, "pay_other"),
		})

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, 400, customErr.StatusCode)

		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.False(t, appointment.Payment)
	})

	t.Run("order not yet paid at the provider does not reconcile", func(t *testing.T) {
		uc, appointmentRepo, _, order := setup(t)

		result, err := uc.VerifyOrder(ctx, &requests.VerifyOrderRequest{
			OrderID:   order.OrderID,
			PaymentID: "pay_1",
			Signature: sign(order.OrderID, "pay_1"),
		})

		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomePaymentNotCompleted, result.Outcome)
		assert.False(t, result.Paid)
		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.False(t, appointment.Payment)
	})

	t.Run("cancelled appointment resolves without paying", func(t *testing.T) {
		uc, appointmentRepo, orderGateway, order := setup(t)
		orderGateway.markPaid(order.OrderID)
		appointmentRepo.appointments["appt-1"].Cancelled = true

		result, err := uc.VerifyOrder(ctx, &requests.VerifyOrderRequest{
			OrderID:   order.OrderID,
			PaymentID: "pay_1",
			Signature: sign(order.OrderID, "pay_1"),
		})

		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomeAppointmentCancelled, result.Outcome)
		assert.False(t, result.Paid)
		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.False(t, appointment.Payment)
	})
}

func TestCheckoutFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("session carries redirect urls keyed by appointment", func(t *testing.T) {
		checkoutGateway := newFakeCheckoutGateway()
		uc := newTestUsecase(newFakeApptRepo(testAppointment()), newFakeOrderGateway(), checkoutGateway)

		session, err := uc.CreateSession(ctx, "appt-1", "https://app.example")

		assert.NoError(t, err)
		assert.Equal(t, "appt-1", session.AppointmentID)
		assert.NotEmpty(t, session.SessionURL)
	})

	t.Run("session amount rounds instead of truncating", func(t *testing.T) {
		appointment := testAppointment()
		appointment.Amount = 0.29
		checkoutGateway := newFakeCheckoutGateway()
		uc := newTestUsecase(newFakeApptRepo(appointment), newFakeOrderGateway(), checkoutGateway)

		_, err := uc.CreateSession(ctx, "appt-1", "https://app.example")

		assert.NoError(t, err)
		assert.EqualValues(t, 29, checkoutGateway.lastAmount)
	})

	t.Run("redirect success flag alone does not mark paid", func(t *testing.T) {
		checkoutGateway := newFakeCheckoutGateway()
		appointmentRepo := newFakeApptRepo(testAppointment())
		uc := newTestUsecase(appointmentRepo, newFakeOrderGateway(), checkoutGateway)
		_, err := uc.CreateSession(ctx, "appt-1", "https://app.example")
		assert.NoError(t, err)

		// Session still open at the provider.
		result, err := uc.ConfirmSession(ctx, "appt-1", true)

		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomePaymentNotCompleted, result.Outcome)
		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.False(t, appointment.Payment)
	})

	t.Run("completed session reconciles and replays resolve already paid", func(t *testing.T) {
		checkoutGateway := newFakeCheckoutGateway()
		appointmentRepo := newFakeApptRepo(testAppointment())
		uc := newTestUsecase(appointmentRepo, newFakeOrderGateway(), checkoutGateway)
		session, err := uc.CreateSession(ctx, "appt-1", "https://app.example")
		assert.NoError(t, err)
		checkoutGateway.complete("appt-1")

		first, err := uc.ConfirmSession(ctx, "appt-1", true)
		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomeReconciled, first.Outcome)

		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.True(t, appointment.Payment)
		assert.Equal(t, session.SessionID, appointment.PaymentID)

		second, err := uc.ConfirmSession(ctx, "appt-1", true)
		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomeAlreadyPaid, second.Outcome)
	})

	t.Run("cancelled redirect resolves session failed", func(t *testing.T) {
		appointmentRepo := newFakeApptRepo(testAppointment())
		uc := newTestUsecase(appointmentRepo, newFakeOrderGateway(), newFakeCheckoutGateway())

		result, err := uc.ConfirmSession(ctx, "appt-1", false)

		assert.NoError(t, err)
		assert.Equal(t, responses.OutcomeSessionFailed, result.Outcome)
		appointment, _ := appointmentRepo.FindByID(ctx, "appt-1")
		assert.False(t, appointment.Payment)
	})
}
