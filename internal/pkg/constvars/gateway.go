package constvars

// OrderStatus is the typed lifecycle status reported by the order-based
// payment provider for an order created against an appointment receipt.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusAttempted OrderStatus = "attempted"
	OrderStatusPaid      OrderStatus = "paid"
)

// CheckoutSessionStatus is the typed status reported by the redirect-based
// checkout provider when a session is fetched server side.
type CheckoutSessionStatus string

const (
	CheckoutSessionStatusOpen     CheckoutSessionStatus = "open"
	CheckoutSessionStatusComplete CheckoutSessionStatus = "complete"
	CheckoutSessionStatusExpired  CheckoutSessionStatus = "expired"
)

const (
	CheckoutPaymentStatusPaid   = "paid"
	CheckoutPaymentStatusUnpaid = "unpaid"
)

// Redirect targets carried inside checkout sessions. The appointment id is the
// correlation value on both branches.
const (
	CheckoutSuccessURLFormat = "%s/verify?success=true&appointmentId=%s"
	CheckoutCancelURLFormat  = "%s/verify?success=false&appointmentId=%s"
)
