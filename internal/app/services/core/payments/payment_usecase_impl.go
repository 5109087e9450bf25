package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"sync"

	"go.uber.org/zap"
)

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

type paymentUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	OrderGateway          contracts.OrderGatewayService
	CheckoutGateway       contracts.CheckoutGatewayService
	MessagePublisher      contracts.MessagePublisher
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

type paymentEvent struct {
	Event         string `json:"event"`
	AppointmentID string `json:"appointmentId"`
	PaymentID     string `json:"paymentId,omitempty"`
	Outcome       string `json:"outcome"`
}

func NewPaymentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	orderGateway contracts.OrderGatewayService,
	checkoutGateway contracts.CheckoutGatewayService,
	messagePublisher contracts.MessagePublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		instance := &paymentUsecase{
			AppointmentRepository: appointmentRepository,
			OrderGateway:          orderGateway,
			CheckoutGateway:       checkoutGateway,
			MessagePublisher:      messagePublisher,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
		paymentUsecaseInstance = instance
	})
	return paymentUsecaseInstance
}

func (uc *paymentUsecase) CreateOrder(ctx context.Context, appointmentID string) (*responses.PaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.payableAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	order, err := uc.OrderGateway.CreateOrder(ctx, &requests.GatewayOrderRequest{
		Amount:         minorUnits(appointment.Amount),
		Currency:       uc.InternalConfig.OrderGateway.Currency,
		Receipt:        utils.GenerateReceiptID(appointmentID),
		IdempotencyKey: utils.GenerateIdempotencyKey(appointmentID),
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("paymentUsecase.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, order.ID),
	)
	return &responses.PaymentOrder{
		AppointmentID: appointmentID,
		OrderID:       order.ID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Receipt:       order.Receipt,
	}, nil
}

// VerifyOrder reconciles flow A. The signature proves the callback is genuine
// and the provider-side order fetch proves the money actually moved; only
// then does the appointment flip to paid. Replays of an already-reconciled
// callback resolve to AlreadyPaid instead of an error.
func (uc *paymentUsecase) VerifyOrder(ctx context.Context, request *requests.VerifyOrderRequest) (*responses.Reconciliation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.VerifyOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOrderIDKey, request.OrderID),
		zap.String(constvars.LoggingPaymentIDKey, request.PaymentID),
	)

	if !uc.OrderGateway.VerifySignature(request.OrderID, request.PaymentID, request.Signature) {
		return nil, exceptions.ErrSignatureInvalid(nil)
	}

	order, err := uc.OrderGateway.FetchOrder(ctx, request.OrderID)
	if err != nil {
		return nil, err
	}

	// The order receipt is the appointment id.
	appointmentID := order.Receipt
	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}

	if outcome, done := terminalOutcome(appointment); done {
		return uc.buildReconciliation(ctx, requestID, appointmentID, outcome, appointment.Payment), nil
	}

	if order.Status != constvars.OrderStatusPaid {
		return uc.buildReconciliation(ctx, requestID, appointmentID, responses.OutcomePaymentNotCompleted, false), nil
	}

	return uc.markPaid(ctx, requestID, appointmentID, request.PaymentID)
}

func (uc *paymentUsecase) CreateSession(ctx context.Context, appointmentID, origin string) (*responses.PaymentSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.CreateSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.payableAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	session, err := uc.CheckoutGateway.CreateSession(ctx, &requests.CheckoutSessionRequest{
		AppointmentID: appointmentID,
		Amount:        minorUnits(appointment.Amount),
		Currency:      uc.InternalConfig.CheckoutGateway.Currency,
		ProductName:   "Appointment Fees",
		Description:   fmt.Sprintf("Appointment with %s on %s at %s", appointment.DoctorData.Name, appointment.SlotDate, appointment.SlotTime),
		SuccessURL:    fmt.Sprintf(constvars.CheckoutSuccessURLFormat, origin, appointmentID),
		CancelURL:     fmt.Sprintf(constvars.CheckoutCancelURLFormat, origin, appointmentID),
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("paymentUsecase.CreateSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
	)
	return &responses.PaymentSession{
		AppointmentID: appointmentID,
		SessionID:     session.ID,
		SessionURL:    session.URL,
	}, nil
}

// ConfirmSession reconciles flow B. The redirect flag from the browser is
// only a hint: the session is re-fetched from the provider and the paid
// transition happens solely when the provider reports the session complete
// and paid.
func (uc *paymentUsecase) ConfirmSession(ctx context.Context, appointmentID string, success bool) (*responses.Reconciliation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.ConfirmSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Bool(constvars.LoggingSuccessKey, success),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}

	if outcome, done := terminalOutcome(appointment); done {
		return uc.buildReconciliation(ctx, requestID, appointmentID, outcome, appointment.Payment), nil
	}

	if !success {
		return uc.buildReconciliation(ctx, requestID, appointmentID, responses.OutcomeSessionFailed, false), nil
	}

	session, err := uc.CheckoutGateway.FetchSession(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if session.Status != constvars.CheckoutSessionStatusComplete || session.PaymentStatus != constvars.CheckoutPaymentStatusPaid {
		return uc.buildReconciliation(ctx, requestID, appointmentID, responses.OutcomePaymentNotCompleted, false), nil
	}

	return uc.markPaid(ctx, requestID, appointmentID, session.ID)
}

// payableAppointment loads an appointment and checks it can still accept a
// payment attempt.
func (uc *paymentUsecase) payableAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}
	if appointment.Cancelled {
		return nil, exceptions.ErrAppointmentAlreadyCancelled(nil)
	}
	if appointment.Payment {
		return nil, exceptions.ErrClientCustomMessage(errors.New(constvars.ErrClientAppointmentAlreadyPaid))
	}
	return appointment, nil
}

// markPaid attempts the single paid transition. The conditional store write
// is the arbiter: when a concurrent callback or cancellation won the race,
// this caller re-reads and reports the terminal state it lost to instead of
// overwriting paymentId and paymentDate.
func (uc *paymentUsecase) markPaid(ctx context.Context, requestID, appointmentID, paymentID string) (*responses.Reconciliation, error) {
	transitioned, err := uc.AppointmentRepository.MarkPaid(ctx, appointmentID, paymentID)
	if err != nil {
		return nil, err
	}
	if transitioned {
		return uc.buildReconciliation(ctx, requestID, appointmentID, responses.OutcomeReconciled, true), nil
	}

	raced, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if raced != nil && raced.Cancelled {
		return uc.buildReconciliation(ctx, requestID, appointmentID, responses.OutcomeAppointmentCancelled, false), nil
	}
	return uc.buildReconciliation(ctx, requestID, appointmentID, responses.OutcomeAlreadyPaid, true), nil
}

// minorUnits converts a fee to the provider's minor currency units, rounding
// so two-decimal fees never lose a unit to float truncation.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (uc *paymentUsecase) buildReconciliation(ctx context.Context, requestID, appointmentID string, outcome responses.ReconcileOutcome, paid bool) *responses.Reconciliation {
	uc.Log.Info("paymentUsecase reconciliation resolved",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingOutcomeKey, string(outcome)),
	)

	if outcome == responses.OutcomeReconciled {
		err := uc.MessagePublisher.Publish(ctx, uc.InternalConfig.RabbitMQ.PaymentQueue, paymentEvent{
			Event:         "payment.reconciled",
			AppointmentID: appointmentID,
			Outcome:       string(outcome),
		})
		if err != nil {
			uc.Log.Warn("paymentUsecase failed to publish payment event",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
				zap.Error(err),
			)
		}
	}

	return &responses.Reconciliation{
		AppointmentID: appointmentID,
		Outcome:       outcome,
		Paid:          paid,
	}
}

// terminalOutcome maps an appointment that can no longer transition to the
// outcome a retrying caller should see.
func terminalOutcome(appointment *models.Appointment) (responses.ReconcileOutcome, bool) {
	if !appointment.IsFinalForPayment() {
		return "", false
	}
	if appointment.Cancelled {
		return responses.OutcomeAppointmentCancelled, true
	}
	return responses.OutcomeAlreadyPaid, true
}
