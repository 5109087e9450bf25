package contracts

import (
	"context"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type PaymentUsecase interface {
	// Flow A: order gateway with synchronous signature verification.
	CreateOrder(ctx context.Context, appointmentID string) (*responses.PaymentOrder, error)
	VerifyOrder(ctx context.Context, request *requests.VerifyOrderRequest) (*responses.Reconciliation, error)

	// Flow B: redirect checkout session. ConfirmSession never trusts the
	// redirect flag alone; a provider-side session fetch gates the paid
	// transition.
	CreateSession(ctx context.Context, appointmentID, origin string) (*responses.PaymentSession, error)
	ConfirmSession(ctx context.Context, appointmentID string, success bool) (*responses.Reconciliation, error)
}
