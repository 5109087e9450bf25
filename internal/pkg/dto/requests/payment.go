package requests

// VerifyOrderRequest carries the client-reported completion of an order
// payment: the provider order id, the provider payment id and the hex
// HMAC-SHA256 signature over "orderID|paymentID".
type VerifyOrderRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
}

type CreateOrderRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
}

type CreateSessionRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
	Origin        string `json:"origin" validate:"required,url"`
}

type ConfirmSessionRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
	Success       bool   `json:"success"`
}

// GatewayOrderRequest is the payload sent to the order provider. Amount is in
// minor currency units (fee * 100). IdempotencyKey dedupes retried creations
// so a retry after a timeout cannot open a second order.
type GatewayOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	IdempotencyKey string `json:"-"`
}

// CheckoutSessionRequest is the payload sent to the checkout provider.
type CheckoutSessionRequest struct {
	AppointmentID string `json:"appointmentId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	ProductName   string `json:"productName"`
	Description   string `json:"description"`
	SuccessURL    string `json:"successUrl"`
	CancelURL     string `json:"cancelUrl"`
}
