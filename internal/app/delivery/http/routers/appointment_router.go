package routers

import (
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/services/core/appointments"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *appointments.AppointmentController) {
	router.Get("/slots/{doctorID}", appointmentController.GetAvailableSlots)
	router.Post("/", appointmentController.Book)
	router.Post("/cancel", appointmentController.Cancel)
	router.Get("/user/{userID}", appointmentController.ListByUser)
	router.Get("/doctor/{doctorID}", appointmentController.ListByDoctor)
}
