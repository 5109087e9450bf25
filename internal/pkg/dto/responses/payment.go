package responses

import (
	"medibook-service/internal/pkg/constvars"
	"time"
)

// ReconcileOutcome tells a retrying caller what happened without making the
// retry an error. Only OutcomeReconciled means state changed on this call.
type ReconcileOutcome string

const (
	OutcomeReconciled           ReconcileOutcome = "reconciled"
	OutcomeAlreadyPaid          ReconcileOutcome = "already_paid"
	OutcomeAppointmentCancelled ReconcileOutcome = "appointment_cancelled"
	OutcomePaymentNotCompleted  ReconcileOutcome = "payment_not_completed"
	OutcomeSessionFailed        ReconcileOutcome = "session_failed"
)

type Reconciliation struct {
	AppointmentID string           `json:"appointmentId"`
	Outcome       ReconcileOutcome `json:"outcome"`
	Paid          bool             `json:"paid"`
}

type PaymentOrder struct {
	AppointmentID string `json:"appointmentId"`
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Receipt       string `json:"receipt"`
}

type PaymentSession struct {
	AppointmentID string `json:"appointmentId"`
	SessionID     string `json:"sessionId"`
	SessionURL    string `json:"sessionUrl"`
}

// GatewayOrder mirrors the order provider's order resource.
type GatewayOrder struct {
	ID        string                `json:"id"`
	Amount    int64                 `json:"amount"`
	Currency  string                `json:"currency"`
	Receipt   string                `json:"receipt"`
	Status    constvars.OrderStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
}

// CheckoutSession mirrors the checkout provider's session resource.
type CheckoutSession struct {
	ID            string                          `json:"id"`
	URL           string                          `json:"url"`
	AppointmentID string                          `json:"appointmentId"`
	Status        constvars.CheckoutSessionStatus `json:"status"`
	PaymentStatus string                          `json:"paymentStatus"`
}
