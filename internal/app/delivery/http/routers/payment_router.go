package routers

import (
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/services/core/payments"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRoutes(router chi.Router, middlewares *middlewares.Middlewares, paymentController *payments.PaymentController) {
	router.Post("/orders", paymentController.CreateOrder)
	router.Post("/orders/verify", paymentController.VerifyOrder)
	router.Post("/sessions", paymentController.CreateSession)
	router.Post("/sessions/confirm", paymentController.ConfirmSession)
}
