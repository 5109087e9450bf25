package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

// OrderGatewayService fronts the order-based payment provider (flow A).
type OrderGatewayService interface {
	CreateOrder(ctx context.Context, request *requests.GatewayOrderRequest) (*responses.GatewayOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*responses.GatewayOrder, error)

	// VerifySignature recomputes HMAC-SHA256(secret, orderID+"|"+paymentID)
	// and compares it in constant time against the client-supplied hex
	// signature.
	VerifySignature(orderID, paymentID, signature string) bool
}

// CheckoutGatewayService fronts the redirect-based checkout provider (flow B).
type CheckoutGatewayService interface {
	CreateSession(ctx context.Context, request *requests.CheckoutSessionRequest) (*responses.CheckoutSession, error)
	FetchSession(ctx context.Context, appointmentID string) (*responses.CheckoutSession, error)
}
